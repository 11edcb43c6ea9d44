package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"rocketshoes-cart/internal/domain"
	"rocketshoes-cart/internal/notify"
	cartsvc "rocketshoes-cart/internal/service/cart"
	"rocketshoes-cart/internal/service/session"

	"github.com/gin-gonic/gin"
)

const sessionHeader = "X-Cart-Session"

type ctxKey string

const sessionCtxKey ctxKey = "cartSession"

type cartSession struct {
	id       string
	store    *cartsvc.Store
	recorder *notify.Recorder
}

type createSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type addItemRequest struct {
	ProductID int `json:"productId"`
}

type updateItemRequest struct {
	Amount int `json:"amount"`
}

type cartResponse struct {
	Items         []domain.LineItem `json:"items"`
	Size          int               `json:"size"`
	Units         int               `json:"units"`
	Subtotal      float64           `json:"subtotal"`
	Notifications []string          `json:"notifications,omitempty"`
	Error         string            `json:"error,omitempty"`
}

func toCartResponse(c domain.Cart) cartResponse {
	items := []domain.LineItem(c.Clone())
	return cartResponse{
		Items:    items,
		Size:     c.Size(),
		Units:    c.Units(),
		Subtotal: c.Subtotal(),
	}
}

// sessionMiddleware resolves the X-Cart-Session header to the session's cart
// store and puts it on the request context.
func sessionMiddleware(sessions SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + sessionHeader + " header"})
			return
		}

		store, err := sessions.Store(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrUnknownSession) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown session"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		recorder, err := sessions.Recorder(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown session"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, &cartSession{id: id, store: store, recorder: recorder})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *cartSession {
	s, _ := c.Request.Context().Value(sessionCtxKey).(*cartSession)
	return s
}

type cartHandler struct {
	sessions SessionService
	logger   *log.Logger
}

func (h *cartHandler) createSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}

	if req.SessionID != "" {
		if err := h.sessions.Resume(c.Request.Context(), req.SessionID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
		c.Header(sessionHeader, req.SessionID)
		c.JSON(http.StatusOK, gin.H{"sessionId": req.SessionID})
		return
	}

	id, err := h.sessions.Issue(c.Request.Context())
	if err != nil {
		h.logger.Printf("httpserver: issue session error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	c.Header(sessionHeader, id)
	c.JSON(http.StatusCreated, gin.H{"sessionId": id})
}

func (h *cartHandler) getCart(c *gin.Context) {
	s := sessionFrom(c)
	c.JSON(http.StatusOK, toCartResponse(s.store.Cart()))
}

func (h *cartHandler) drainNotifications(c *gin.Context) {
	s := sessionFrom(c)
	c.JSON(http.StatusOK, gin.H{"notifications": s.recorder.Drain()})
}

func (h *cartHandler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	s := sessionFrom(c)
	h.respondMutation(c, s, s.store.AddProduct(c.Request.Context(), req.ProductID))
}

func (h *cartHandler) updateItem(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	s := sessionFrom(c)
	err := s.store.UpdateProductAmount(c.Request.Context(), cartsvc.UpdateProductAmount{ProductID: productID, Amount: req.Amount})
	h.respondMutation(c, s, err)
}

func (h *cartHandler) removeItem(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	s := sessionFrom(c)
	h.respondMutation(c, s, s.store.RemoveProduct(c.Request.Context(), productID))
}

// respondMutation writes the cart after a mutation together with the
// notifications it produced.
func (h *cartHandler) respondMutation(c *gin.Context, s *cartSession, err error) {
	resp := toCartResponse(s.store.Cart())
	resp.Notifications = s.recorder.Drain()
	status := statusFor(err)
	if err != nil {
		resp.Error = err.Error()
		if status >= http.StatusInternalServerError {
			h.logger.Printf("httpserver: session=%s mutation error=%v", s.id, err)
		}
	}
	c.JSON(status, resp)
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func productIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId must be an integer"})
		return 0, false
	}
	return id, true
}
