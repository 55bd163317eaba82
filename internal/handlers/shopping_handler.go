// maisagenda/internal/handlers/shopping_handler.go

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"maisagenda/config"
	"maisagenda/models"

	"github.com/gin-gonic/gin"
)

// ShoppingItemRequest - структура для создания/обновления позиции покупок.
type ShoppingItemRequest struct {
	ListName string `json:"list_name"`
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
	Done     bool   `json:"done"`
}

// ListShoppingItemsHandler возвращает позиции, сгруппированные по спискам.
func ListShoppingItemsHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	if currentUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := config.DB.Where("user_id = ?", currentUserID)
	if list := c.Query("list"); list != "" {
		query = query.Where("list_name = ?", list)
	}

	var items []models.ShoppingItem
	if err := query.Order("list_name ASC, created_at ASC").Find(&items).Error; err != nil {
		log.Printf("Error fetching shopping items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shopping items"})
		return
	}

	grouped := make(map[string][]models.ShoppingItem)
	for _, item := range items {
		grouped[item.ListName] = append(grouped[item.ListName], item)
	}

	c.JSON(http.StatusOK, grouped)
}

// CreateShoppingItemHandler добавляет позицию в список покупок.
func CreateShoppingItemHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")

	var req ShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	item := models.ShoppingItem{
		UserID:   currentUserID,
		ListName: defaultString(req.ListName, "Geral"),
		Name:     req.Name,
		Quantity: quantity,
		Done:     req.Done,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		log.Printf("Error creating shopping item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shopping item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateShoppingItemHandler обновляет позицию списка покупок.
func UpdateShoppingItemHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req ShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var item models.ShoppingItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if item.UserID != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this item"})
		return
	}

	updates := map[string]interface{}{
		"name":      req.Name,
		"list_name": defaultString(req.ListName, item.ListName),
		"done":      req.Done,
	}
	if req.Quantity > 0 {
		updates["quantity"] = req.Quantity
	}
	if err := config.DB.Model(&item).Updates(updates).Error; err != nil {
		log.Printf("Error updating shopping item %d: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteShoppingItemHandler удаляет позицию списка покупок.
func DeleteShoppingItemHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	result := config.DB.Where("user_id = ?", currentUserID).Delete(&models.ShoppingItem{}, itemID)
	if result.Error != nil {
		log.Printf("Error deleting shopping item %d: %v", itemID, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
