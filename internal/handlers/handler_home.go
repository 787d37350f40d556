package handlers

import (
	"net/http"

	"github.com/SscSPs/currency_api/internal/dto"
	"github.com/gin-gonic/gin"
)

// getIndex godoc
// @Summary Describe the public API.
// @Description Lists the available endpoints.
// @Tags root
// @Produce json
// @Success 200 {object} dto.IndexResponse
// @Router /api [get]
func getIndex(c *gin.Context) {
	c.JSON(http.StatusOK, dto.IndexResponse{
		Success:   true,
		Message:   "Currency API v1",
		Endpoints: map[string]string{
			"GET /api/rates":                              "All rates of a base currency",
			"GET /api/rates?base=USD&target=EUR":          "A single rate",
			"GET /api/convert?amount=100&from=USD&to=EUR": "Convert an amount",
			"POST /api/device/register":                   "Register or update a device",
			"GET /api/device/info?device_id=xxx":          "Device details",
			"POST /api/update":                            "Force a rate refresh",
		},
	})
}
