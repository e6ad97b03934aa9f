package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottoshop/internal/checkout"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/pricing"
)

// ── Conversation ─────────────────────────────────────────────────

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// chat runs one turn. An unknown or missing sessionId starts a new
// conversation.
func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		badRequest(c)
		return
	}
	ctx := c.Request.Context()

	id := req.SessionID
	if id != "" {
		if _, err := s.engine.Get(ctx, id); errors.Is(err, domain.ErrNotFound) {
			id = ""
		}
	}
	if id == "" {
		conv, err := s.engine.Start(ctx)
		if err != nil {
			s.fail(c, err)
			return
		}
		id = conv.ID
	}

	res, err := s.engine.HandleTurn(ctx, id, req.Message)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, turnOf(res))
}

func (s *Server) getConversation(c *gin.Context) {
	conv, err := s.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(conv))
}

type selectRequest struct {
	Store string `json:"store" binding:"required"`
}

// selectStore accepts a store name, "cheapest", "fastest" or a 1-based
// position in the conversation's comparisons.
func (s *Server) selectStore(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	conv, err := s.engine.Get(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	store, err := s.engine.ResolveStore(conv, req.Store)
	if err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.engine.SelectStore(ctx, id, store)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, turnOf(res))
}

type addressRequest struct {
	Address string `json:"address"`
}

func (s *Server) address(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	res, err := s.engine.SubmitAddress(c.Request.Context(), c.Param("id"), req.Address)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, turnOf(res))
}

func (s *Server) newOrder(c *gin.Context) {
	conv, err := s.engine.NewOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(conv))
}

// ── Tools ────────────────────────────────────────────────────────

type parseRequest struct {
	UserInput string `json:"userInput"`
}

func (s *Server) parseItems(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	c.JSON(http.StatusOK, s.tools.ParseItems(req.UserInput))
}

type pricesRequest struct {
	Store string   `json:"store" binding:"required"`
	Items []string `json:"items"`
}

func (s *Server) prices(c *gin.Context) {
	var req pricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	res, err := s.tools.StorePrices(req.Store, req.Items)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type compareRequest struct {
	Items []string `json:"items"`
}

func (s *Server) compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	c.JSON(http.StatusOK, s.tools.Compare(req.Items))
}

type basketRequest struct {
	CurrentItems []string `json:"currentItems"`
	Action       string   `json:"action" binding:"required"`
	Items        []string `json:"items"`
}

func (s *Server) basket(c *gin.Context) {
	var req basketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	res, err := s.tools.Basket(req.CurrentItems, req.Action, req.Items)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type checkoutRequest struct {
	Store   string   `json:"store" binding:"required"`
	Items   []string `json:"items"`
	Total   float64  `json:"total"`
	Address string   `json:"address"`
}

func (s *Server) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	store, ok := domain.ParseStore(req.Store)
	if !ok {
		s.fail(c, &pricing.UnknownStoreError{Store: req.Store})
		return
	}
	c.JSON(http.StatusOK, s.tools.Checkout(checkout.Request{
		Store:   store,
		Items:   req.Items,
		Total:   req.Total,
		Address: req.Address,
	}))
}
