package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/internal/domain"
	"github.com/1abobik1/SecureMsg/internal/dto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// аутентификации клиентов нет, origin не фильтруем
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn — живой транспортный хэндл одного клиента.
// Запись в сокет сериализована мьютексом: ack из цикла чтения и живые доставки
// от чужих relay-потоков идут конкурентно.
type wsConn struct {
	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool
}

func (w *wsConn) Send(env domain.StoredEnvelope) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return websocket.ErrCloseSent
	}
	return w.ws.WriteJSON(dto.MessageFrame{Type: "message", Envelope: env})
}

func (w *wsConn) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

func (w *wsConn) writeJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return websocket.ErrCloseSent
	}
	return w.ws.WriteJSON(v)
}

func (w *wsConn) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.ws.Close()
}

// ServeWS — точка входа живой сессии: /ws/:client_id.
// Подключение инициализирует канал клиента, регистрирует хэндл и крутит цикл
// входящих сообщений. Восстановимые ошибки уходят отправителю фреймом и не
// рвут сессию; чистка реестра на выходе снимает только свой хэндл.
func (h *handler) ServeWS(c *gin.Context) {
	const op = "location internal.handler.ws.ServeWS"

	clientID := c.Param("client_id")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: "client_id is required"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("%s: upgrade: %v", op, err)
		return
	}

	conn := &wsConn{ws: ws}
	defer conn.shutdown()

	kp, err := h.svc.InitializeSecureChannel(c.Request.Context(), clientID, nil)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		conn.writeJSON(dto.ErrorFrame{Error: "failed to initialize secure channel"})
		return
	}

	h.conns.Register(clientID, conn)
	// снимаем только собственный хэндл: запоздавшая чистка не должна
	// вытеснить регистрацию нового подключения этого клиента
	defer h.conns.Unregister(clientID, conn)

	greeting := dto.ConnectedFrame{Type: "connected", ClientID: clientID}
	if kp != nil {
		greeting.PublicKey = kp.Public.Text(10)
	}
	if err := conn.writeJSON(greeting); err != nil {
		logrus.Errorf("%s: greeting: %v", op, err)
		return
	}

	logrus.Infof("client %s connected", clientID)

	for {
		var req dto.SendMessageReq
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Warnf("%s: read: %v", op, err)
			}
			return
		}

		receipt, err := h.svc.HandleMessage(c.Request.Context(), clientID, req.Recipient, req.Message)
		if err != nil {
			// восстановимая ошибка relay: отчитываемся отправителю, сессию не рвём
			conn.writeJSON(dto.ErrorFrame{Error: err.Error()})
			continue
		}

		conn.writeJSON(dto.AckFrame{
			Type:      "ack",
			MessageID: receipt.MessageID,
			Delivery:  deliveryLabel(receipt),
		})
	}
}
