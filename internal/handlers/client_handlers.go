package handlers

import (
	"encoding/csv"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coachpilot/coachpilot-golang/internal/apierr"
	"github.com/coachpilot/coachpilot-golang/internal/middleware"
	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

// CreateClientInput defines the JSON input for adding a client to the
// coach's roster.
type CreateClientInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Goals    string `json:"goals"`
	Status   string `json:"status"`
}

// CreateClient is the handler for POST /v1/clients.
func (h *Handlers) CreateClient(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)

	// 1. --- Bind & Validate JSON ---
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status == "" {
		input.Status = models.ClientStatusActive
	}
	if !models.ValidClientStatus(input.Status) {
		h.fail(c, apierr.InvalidArgument("status must be one of: active, paused, archived"))
		return
	}

	// 2. --- Build & Persist ---
	now := time.Now().UTC()
	client := models.Client{
		ID:        uuid.NewString(),
		CoachID:   coachID,
		FullName:  input.FullName,
		Email:     input.Email,
		Goals:     input.Goals,
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Store.Set(c.Request.Context(), store.Clients, client.ID, client.ToFields()); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Client created successfully",
		"client":  client,
	})
}

// GetMyClients is the handler for GET /v1/clients.
func (h *Handlers) GetMyClients(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)

	clients, err := h.loadRoster(c, coachID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// GetClient is the handler for GET /v1/clients/:id.
func (h *Handlers) GetClient(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)
	clientID := c.Param("id")

	doc, err := h.Store.Get(c.Request.Context(), store.Clients, clientID)
	if err != nil {
		if isNotFound(err) {
			h.fail(c, apierr.NotFound("client not found"))
			return
		}
		h.fail(c, err)
		return
	}

	client := models.ClientFromDoc(clientID, doc)
	// A coach can only see their own roster.
	if client.CoachID != coachID {
		h.fail(c, apierr.NotFound("client not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// UpdateClientInput defines the JSON input for updating a client. All
// fields are optional; empty values are left unchanged.
type UpdateClientInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Goals    string `json:"goals"`
	Status   string `json:"status"`
}

// UpdateClient is the handler for PUT /v1/clients/:id.
func (h *Handlers) UpdateClient(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)
	clientID := c.Param("id")

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != "" && !models.ValidClientStatus(input.Status) {
		h.fail(c, apierr.InvalidArgument("status must be one of: active, paused, archived"))
		return
	}

	// Ownership check before the write.
	doc, err := h.Store.Get(c.Request.Context(), store.Clients, clientID)
	if err != nil || models.AsString(doc["coachId"]) != coachID {
		h.fail(c, apierr.NotFound("client not found"))
		return
	}

	fields := map[string]interface{}{"updatedAt": time.Now().UTC()}
	if input.FullName != "" {
		fields["fullName"] = input.FullName
	}
	if input.Email != "" {
		fields["email"] = input.Email
	}
	if input.Goals != "" {
		fields["goals"] = input.Goals
	}
	if input.Status != "" {
		fields["status"] = input.Status
	}

	if err := h.Store.Update(c.Request.Context(), store.Clients, clientID, fields); err != nil {
		if isNotFound(err) {
			h.fail(c, apierr.NotFound("client not found"))
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client updated"})
}

// ExportClients is the handler for GET /v1/clients/export. It streams the
// coach's roster as CSV.
func (h *Handlers) ExportClients(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)

	clients, err := h.loadRoster(c, coachID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="clients.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "fullName", "email", "status", "goals", "createdAt"})
	for _, cl := range clients {
		_ = w.Write([]string{
			cl.ID,
			cl.FullName,
			cl.Email,
			cl.Status,
			cl.Goals,
			cl.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
}

// loadRoster returns the coach's clients sorted by name for stable output.
func (h *Handlers) loadRoster(c *gin.Context, coachID string) ([]models.Client, error) {
	docs, err := h.Store.List(c.Request.Context(), store.Clients, "coachId", coachID)
	if err != nil {
		return nil, err
	}
	clients := make([]models.Client, 0, len(docs))
	for _, d := range docs {
		clients = append(clients, models.ClientFromDoc(d.ID, d.Data))
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].FullName < clients[j].FullName })
	return clients, nil
}
