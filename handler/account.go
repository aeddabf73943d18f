package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshuadevelopsgames/LECRM-dev/service"
)

type AccountHandler struct {
	store *service.CRMStore
}

func NewAccountHandler() *AccountHandler {
	return &AccountHandler{store: service.GetCRMStore()}
}

// List returns all accounts, best score first
func (h *AccountHandler) List(c *gin.Context) {
	accounts := h.store.ListAccounts()
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Get returns a single account with its contacts
func (h *AccountHandler) Get(c *gin.Context) {
	id := c.Param("id")

	account := h.store.GetAccount(id)
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":  account,
		"contacts": h.store.ListContacts(id),
	})
}

// ListContacts returns contacts, optionally filtered by account_id
func (h *AccountHandler) ListContacts(c *gin.Context) {
	contacts := h.store.ListContacts(c.Query("account_id"))
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}
