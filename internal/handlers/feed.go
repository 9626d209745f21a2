package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/habitloop-dev/habitloop/internal/services"
	"github.com/habitloop-dev/habitloop/internal/types"
)

var (
	feedClients   = make(map[string]map[*websocket.Conn]bool)
	feedClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastReminder pushes a fired reminder to the user's connected feed
// clients. Wired into the scheduler as a delivery channel.
func BroadcastReminder(reminder services.Reminder) error {
	userKey := fmt.Sprintf("%d", reminder.UserID)

	feedClientsMu.RLock()
	clients, exists := feedClients[userKey]
	if !exists || len(clients) == 0 {
		feedClientsMu.RUnlock()
		return nil
	}

	// Copy so the lock isn't held while writing to sockets.
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	feedClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for reminder broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]interface{}{
			"type":     "reminder",
			"reminder": reminder,
		})

		if err != nil {
			log.Printf("Failed to broadcast reminder to client: %v", err)
			feedClientsMu.Lock()
			if clients, exists := feedClients[userKey]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(feedClients, userKey)
				}
			}
			feedClientsMu.Unlock()
			conn.Close()
		}
	}

	return nil
}

// Feed upgrades the connection and streams the user's fired reminders.
func Feed(c *gin.Context) {
	userID := c.Param("user_id")

	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	feedClientsMu.Lock()
	if feedClients[userID] == nil {
		feedClients[userID] = make(map[*websocket.Conn]bool)
	}
	feedClients[userID][conn] = true
	feedClientsMu.Unlock()

	defer func() {
		feedClientsMu.Lock()

		if clients, exists := feedClients[userID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(feedClients, userID)
			}
		}

		feedClientsMu.Unlock()
		conn.Close()

		log.Printf("Feed connection closed for user %s", userID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "Reminder feed connected",
		"user_id": userID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for user %s: %v", userID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for user %s: %v", userID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for user %s: %v", userID, err)
			break
		}

		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Feed error for user %s: %v", userID, err)
			}
			break
		}
	}
}
