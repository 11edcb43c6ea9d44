package cart

import "strings"

// Messages are the texts handed to the Notifier.
type Messages struct {
	OutOfStock   string
	AddFailed    string
	RemoveFailed string
	UpdateFailed string
}

var EnglishMessages = Messages{
	OutOfStock:   "Requested quantity out of stock",
	AddFailed:    "Error adding product",
	RemoveFailed: "Error removing product",
	UpdateFailed: "Error changing product quantity",
}

var PortugueseMessages = Messages{
	OutOfStock:   "Quantidade solicitada fora de estoque",
	AddFailed:    "Erro na adição do produto",
	RemoveFailed: "Erro na remoção do produto",
	UpdateFailed: "Erro na alteração de quantidade do produto",
}

// MessagesFor picks the message set for a locale tag; unknown tags get English.
func MessagesFor(locale string) Messages {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")) {
	case "pt", "pt-br":
		return PortugueseMessages
	default:
		return EnglishMessages
	}
}
