package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// QueryIntInRange extracts an integer query parameter clamped to [min, max]
func QueryIntInRange(c *gin.Context, key string, defaultValue, min, max int) int {
	value := QueryInt(c, key, defaultValue)
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
