package registry

import (
	"sync"

	"github.com/1abobik1/SecureMsg/internal/domain"
)

// Conn — транспортный хэндл одного подключённого клиента.
type Conn interface {
	Send(env domain.StoredEnvelope) error
	IsOpen() bool
}

// Connections — реестр живых подключений: client_id → хэндл.
// На клиента не больше одного хэндла, новое подключение вытесняет запись
// старого. Все операции — O(1) над картой под одним мьютексом, ввода-вывода
// под замком нет.
type Connections struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewConnections() *Connections {
	return &Connections{conns: make(map[string]Conn)}
}

// Register ставит хэндл клиента, заменяя предыдущий.
func (c *Connections) Register(clientID string, conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[clientID] = conn
}

func (c *Connections) Lookup(clientID string) (Conn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conn, ok := c.conns[clientID]
	return conn, ok
}

// Unregister снимает запись, только если она всё ещё указывает на conn.
// Запоздавшая чистка закрытого подключения не должна сносить регистрацию
// нового: слепое удаление по ключу здесь недопустимо.
func (c *Connections) Unregister(clientID string, conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.conns[clientID]; ok && cur == conn {
		delete(c.conns, clientID)
	}
}
