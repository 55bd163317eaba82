// maisagenda/internal/handlers/transaction_handler.go

package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"maisagenda/config"
	"maisagenda/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// TransactionRequest - структура для создания/обновления транзакции.
type TransactionRequest struct {
	Title    string    `json:"title" binding:"required"`
	Amount   float64   `json:"amount" binding:"required"`
	Type     string    `json:"type" binding:"required"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
}

// monthRange превращает query-параметры month/year в границы месяца.
// Без параметров берется текущий месяц.
func monthRange(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if y := c.Query("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			year = parsed
		}
	}
	if m := c.Query("month"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed >= 1 && parsed <= 12 {
			month = parsed
		}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// ListTransactionsHandler возвращает транзакции пользователя за месяц.
func ListTransactionsHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	if currentUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	from, to := monthRange(c)

	var transactions []models.Transaction
	if err := config.DB.
		Where("user_id = ? AND date >= ? AND date < ?", currentUserID, from, to).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		log.Printf("Error fetching transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// CreateTransactionHandler создает транзакцию вручную (не через бота).
func CreateTransactionHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	tx := models.Transaction{
		UserID:   currentUserID,
		Title:    req.Title,
		Amount:   req.Amount,
		Type:     req.Type,
		Category: defaultString(req.Category, "Geral"),
		Date:     date,
		Status:   defaultString(req.Status, models.TxStatusPaid),
	}
	if err := config.DB.Create(&tx).Error; err != nil {
		log.Printf("Error creating transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// UpdateTransactionHandler обновляет транзакцию пользователя.
func UpdateTransactionHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	txID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var tx models.Transaction
	if err := config.DB.First(&tx, txID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if tx.UserID != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this transaction"})
		return
	}

	updates := map[string]interface{}{
		"title":    req.Title,
		"amount":   req.Amount,
		"type":     req.Type,
		"category": defaultString(req.Category, tx.Category),
		"status":   defaultString(req.Status, tx.Status),
	}
	if !req.Date.IsZero() {
		updates["date"] = req.Date
	}
	if err := config.DB.Model(&tx).Updates(updates).Error; err != nil {
		log.Printf("Error updating transaction %d: %v", txID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}

	c.JSON(http.StatusOK, tx)
}

// DeleteTransactionHandler удаляет транзакцию пользователя.
func DeleteTransactionHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	txID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	result := config.DB.Where("user_id = ?", currentUserID).Delete(&models.Transaction{}, txID)
	if result.Error != nil {
		log.Printf("Error deleting transaction %d: %v", txID, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// categoryTotal - строка сводки по категории за месяц.
type categoryTotal struct {
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
}

// GetTransactionSummaryHandler отдает суммарные обороты по категориям -
// данные для диаграмм на экране финансов.
func GetTransactionSummaryHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	if currentUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	from, to := monthRange(c)

	var totals []categoryTotal
	if err := config.DB.Model(&models.Transaction{}).
		Select("category, type, coalesce(sum(amount), 0) as total").
		Where("user_id = ? AND date >= ? AND date < ?", currentUserID, from, to).
		Group("category, type").
		Order("total DESC").
		Scan(&totals).Error; err != nil {
		log.Printf("Error building transaction summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	var income, expense float64
	for _, t := range totals {
		if t.Type == models.TxTypeIncome {
			income += t.Total
		} else {
			expense += t.Total
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"from":       from,
		"to":         to,
		"income":     income,
		"expense":    expense,
		"balance":    income - expense,
		"categories": totals,
	})
}

// ExportTransactionsHandler выгружает транзакции месяца в XLSX.
func ExportTransactionsHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	if currentUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	from, to := monthRange(c)

	var transactions []models.Transaction
	if err := config.DB.
		Where("user_id = ? AND date >= ? AND date < ?", currentUserID, from, to).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data for export"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Transações"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)

	headers := []string{"Data", "Título", "Tipo", "Categoria", "Valor", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, tx := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.Date.Format("02/01/2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tx.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tx.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tx.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), tx.Status)
	}

	fileName := fmt.Sprintf("transactions_%s.xlsx", from.Format("2006_01"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
