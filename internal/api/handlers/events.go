package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Tables exposed on the change feed. Everything else is internal.
var feedTables = map[string]bool{
	"orders":          true,
	"invoices":        true,
	"tickets":         true,
	"ticket_messages": true,
	"domains":         true,
	"wallets":         true,
	"service_plans":   true,
}

// HandleEvents handles GET /v1/client/events?table=orders as a
// server-sent-event stream. Events carry only the table, row id and
// action; consumers re-fetch the collection.
func HandleEvents(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Query("table")
		if !feedTables[table] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown table"})
			return
		}

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		events := d.Feed.Subscribe(c.Request.Context(), table)
		for event := range events {
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
