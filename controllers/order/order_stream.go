// order_stream.go
package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ngkhanh0211/baitapcuoiki1/models"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu sync.Mutex
	// conn -> client id
	wsClients = make(map[*websocket.Conn]string)
)

type orderEvent struct {
	Event string       `json:"event"` // "order_placed" or "order_paid"
	Order models.Order `json:"order"`
}

// GET /orders/ws
func OrderWebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	clientID := uuid.NewString()
	wsMu.Lock()
	wsClients[conn] = clientID
	wsMu.Unlock()
	zap.S().Debugw("order stream client connected", "client_id", clientID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsClients, conn)
			wsMu.Unlock()
			zap.S().Debugw("order stream client disconnected", "client_id", clientID)
			break
		}
	}
}

func broadcastOrder(order models.Order) {
	broadcast(orderEvent{Event: "order_placed", Order: order})
}

// BroadcastOrderPaid notifies connected dashboards that a gateway
// payment was confirmed.
func BroadcastOrderPaid(order models.Order) {
	broadcast(orderEvent{Event: "order_paid", Order: order})
}

func broadcast(ev orderEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	wsMu.Lock()
	defer wsMu.Unlock()
	for client, clientID := range wsClients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			zap.S().Debugw("order stream write failed", "client_id", clientID, "error", err)
		}
	}
}
