package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-retail-bookstore/internal/chat"
	ordersvc "smart-retail-bookstore/internal/service/order"
)

// Sessions for callers that do not identify themselves get the shared
// demo user.
const fallbackUserID = "1"

type chatRequest struct {
	SessionID string         `json:"session_id" binding:"required"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
}

type cartAddRequest struct {
	SessionID string       `json:"session_id" binding:"required"`
	Book      chat.BookRef `json:"book"`
}

type userDetailsRequest struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type placeOrderRequest struct {
	SessionID   string             `json:"session_id" binding:"required"`
	UserDetails userDetailsRequest `json:"user_details"`
}

func openSessionHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
		}
		// An empty body is fine; the session falls back to the demo user.
		_ = c.ShouldBindJSON(&req)
		if req.UserID == "" {
			req.UserID = fallbackUserID
		}

		session, welcome := manager.Open(req.UserID)
		c.JSON(http.StatusCreated, gin.H{
			"session_id": session.ID(),
			"messages":   welcome,
		})
	}
}

func closeSessionHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Close(c.Param("id")); err != nil {
			respondChatError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func resetSessionHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := manager.Get(c.Param("id"))
		if err != nil {
			respondChatError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": session.Reset()})
	}
}

func chatHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		session, err := manager.Get(req.SessionID)
		if err != nil {
			respondChatError(c, err)
			return
		}

		messages, err := session.SubmitUserText(req.Message, req.Metadata)
		if err != nil {
			respondChatError(c, err)
			return
		}

		// The "quit" command closes the session in place; drop it from the
		// registry so its id stops resolving.
		closed := session.Phase() == chat.PhaseIdle
		if closed {
			manager.Remove(req.SessionID)
		}
		if messages == nil {
			messages = []chat.Message{}
		}
		c.JSON(http.StatusOK, gin.H{
			"messages":       messages,
			"session_closed": closed,
		})
	}
}

func getCartHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := manager.Get(c.Query("session_id"))
		if err != nil {
			respondChatError(c, err)
			return
		}
		respondCart(c, session, "")
	}
}

func addToCartHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Book.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "book title is required"})
			return
		}

		session, err := manager.Get(req.SessionID)
		if err != nil {
			respondChatError(c, err)
			return
		}

		notice, err := session.AddToCart(req.Book)
		if err != nil {
			respondChatError(c, err)
			return
		}
		respondCart(c, session, notice)
	}
}

func removeFromCartHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := manager.Get(c.Query("session_id"))
		if err != nil {
			respondChatError(c, err)
			return
		}
		if err := session.RemoveFromCart(c.Param("id")); err != nil {
			respondChatError(c, err)
			return
		}
		respondCart(c, session, "")
	}
}

func placeOrderHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		session, err := manager.Get(req.SessionID)
		if err != nil {
			respondChatError(c, err)
			return
		}

		conf, messages, err := session.SubmitOrder(ordersvc.UserDetails{
			Name:       req.UserDetails.Name,
			Street:     req.UserDetails.Street,
			City:       req.UserDetails.City,
			State:      req.UserDetails.State,
			ZipCode:    req.UserDetails.ZipCode,
			CardNumber: req.UserDetails.CardNumber,
			ExpiryDate: req.UserDetails.ExpiryDate,
			CVV:        req.UserDetails.CVV,
		})
		if err != nil {
			var incomplete *chat.IncompleteFormError
			if errors.As(err, &incomplete) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":          incomplete.Error(),
					"missing_fields": incomplete.Missing,
				})
				return
			}
			if errors.Is(err, chat.ErrOrderSubmission) {
				// The session already appended an apology; surface it so
				// the widget can render it alongside the error.
				c.JSON(http.StatusBadGateway, gin.H{
					"error":    err.Error(),
					"messages": messages,
				})
				return
			}
			respondChatError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"confirmation": conf,
			"messages":     messages,
		})
	}
}

func respondCart(c *gin.Context, session *chat.Session, notice string) {
	body := gin.H{
		"lines":       session.CartLines(),
		"total_cents": session.CartTotalCents(),
	}
	if notice != "" {
		body["notice"] = notice
	}
	c.JSON(http.StatusOK, body)
}

// respondChatError maps session and order errors to HTTP statuses:
// malformed input 400, unknown ids 404, state-machine conflicts 409,
// backend unavailability 502.
func respondChatError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chat.ErrEmptyInput),
		errors.Is(err, ordersvc.ErrInvalidCard),
		errors.Is(err, ordersvc.ErrInvalidExpiry),
		errors.Is(err, ordersvc.ErrInvalidCVV):
		status = http.StatusBadRequest
	case errors.Is(err, chat.ErrEmptyCart),
		errors.Is(err, chat.ErrBusy),
		errors.Is(err, chat.ErrSubmitInFlight),
		errors.Is(err, chat.ErrSessionClosed),
		errors.Is(err, chat.ErrSessionReset),
		errors.Is(err, chat.ErrInvalidPhase):
		status = http.StatusConflict
	case errors.Is(err, chat.ErrOrderSubmission):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
