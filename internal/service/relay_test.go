package service_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1abobik1/SecureMsg/internal/crypto/dhgroup"
	"github.com/1abobik1/SecureMsg/internal/crypto/envelope"
	"github.com/1abobik1/SecureMsg/internal/domain"
	"github.com/1abobik1/SecureMsg/internal/registry"
	"github.com/1abobik1/SecureMsg/internal/service"
)

type fakeKeyStore struct {
	priv map[string]*big.Int
	pub  map[string]*big.Int
	err  error
}

func newFakeKeyStore() *fakeKeyStore {
	return &fakeKeyStore{priv: map[string]*big.Int{}, pub: map[string]*big.Int{}}
}

func (f *fakeKeyStore) SaveKeyPair(_ context.Context, clientID string, priv, pub *big.Int) error {
	if f.err != nil {
		return f.err
	}
	f.priv[clientID] = new(big.Int).Set(priv)
	f.pub[clientID] = new(big.Int).Set(pub)
	return nil
}

func (f *fakeKeyStore) SavePublic(_ context.Context, clientID string, pub *big.Int) error {
	if f.err != nil {
		return f.err
	}
	f.pub[clientID] = new(big.Int).Set(pub)
	return nil
}

func (f *fakeKeyStore) GetPublic(_ context.Context, clientID string) (*big.Int, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	v, ok := f.pub[clientID]
	if !ok {
		return nil, false, nil
	}
	// как и durable-сторадж, отдаём копию: сервис затирает значения после использования
	return new(big.Int).Set(v), true, nil
}

func (f *fakeKeyStore) GetPrivate(_ context.Context, clientID string) (*big.Int, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	v, ok := f.priv[clientID]
	if !ok {
		return nil, false, nil
	}
	return new(big.Int).Set(v), true, nil
}

type fakeSecretStore struct {
	recs map[string]domain.SessionSecret
	err  error
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{recs: map[string]domain.SessionSecret{}}
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

func (f *fakeSecretStore) Save(_ context.Context, clientID, peerID string, key []byte) error {
	if f.err != nil {
		return f.err
	}
	f.recs[pairKey(clientID, peerID)] = domain.SessionSecret{
		Key:       append([]byte(nil), key...),
		CreatedAt: time.Now(),
		TTL:       time.Hour,
	}
	return nil
}

func (f *fakeSecretStore) Get(_ context.Context, clientID, peerID string) (domain.SessionSecret, bool, error) {
	if f.err != nil {
		return domain.SessionSecret{}, false, f.err
	}
	rec, ok := f.recs[pairKey(clientID, peerID)]
	return rec, ok, nil
}

func (f *fakeSecretStore) Refresh(_ context.Context, clientID, peerID string) error {
	if f.err != nil {
		return f.err
	}
	if rec, ok := f.recs[pairKey(clientID, peerID)]; ok {
		rec.CreatedAt = time.Now()
		f.recs[pairKey(clientID, peerID)] = rec
	}
	return nil
}

type fakeMessageStore struct {
	envs []domain.StoredEnvelope
	err  error
}

func (f *fakeMessageStore) Append(_ context.Context, env domain.StoredEnvelope) error {
	if f.err != nil {
		return f.err
	}
	f.envs = append(f.envs, env)
	return nil
}

func (f *fakeMessageStore) List(_ context.Context, clientID, peerID string) ([]domain.StoredEnvelope, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := pairKey(clientID, peerID)
	var out []domain.StoredEnvelope
	for _, env := range f.envs {
		if pairKey(env.Sender, env.Recipient) == key {
			out = append(out, env)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) ListAll(_ context.Context, clientID string) ([]domain.StoredEnvelope, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.StoredEnvelope
	for _, env := range f.envs {
		if env.Sender == clientID || env.Recipient == clientID {
			out = append(out, env)
		}
	}
	return out, nil
}

type fakeConn struct {
	open bool
	got  []domain.StoredEnvelope
	fail bool
}

func (f *fakeConn) Send(env domain.StoredEnvelope) error {
	if f.fail {
		return errors.New("transport send failed")
	}
	f.got = append(f.got, env)
	return nil
}

func (f *fakeConn) IsOpen() bool { return f.open }

type testBench struct {
	keys     *fakeKeyStore
	secrets  *fakeSecretStore
	messages *fakeMessageStore
	conns    *registry.Connections
}

func newBench() *testBench {
	return &testBench{
		keys:     newFakeKeyStore(),
		secrets:  newFakeSecretStore(),
		messages: &fakeMessageStore{},
		conns:    registry.NewConnections(),
	}
}

func TestHandleMessage_LiveDelivery(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.InitializeSecureChannel(ctx, "alice", nil)
	require.NoError(t, err)
	_, err = svc.InitializeSecureChannel(ctx, "bob", nil)
	require.NoError(t, err)

	bobConn := &fakeConn{open: true}
	b.conns.Register("bob", bobConn)

	receipt, err := svc.HandleMessage(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	assert.True(t, receipt.Delivered)
	assert.NotEmpty(t, receipt.MessageID)

	require.Len(t, bobConn.got, 1)
	assert.Empty(t, b.messages.envs, "live delivery must not persist")

	// конверт расшифровывается ключом пары в исходный текст
	rec, ok := b.secrets.recs[pairKey("alice", "bob")]
	require.True(t, ok, "pair secret must be established")
	plaintext, err := envelope.Open(bobConn.got[0].Message, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(plaintext))
}

func TestHandleMessage_OfflineStoresAndForward(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.InitializeSecureChannel(ctx, "alice", nil)
	require.NoError(t, err)
	_, err = svc.InitializeSecureChannel(ctx, "bob", nil)
	require.NoError(t, err)

	// получатель оффлайн: успех, а не ошибка
	receipt, err := svc.HandleMessage(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	assert.False(t, receipt.Delivered)

	envs, err := svc.GetMessages(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, envs, 1, "stored exactly once")
	assert.Equal(t, receipt.MessageID, envs[0].ID)

	rec := b.secrets.recs[pairKey("alice", "bob")]
	plaintext, err := envelope.Open(envs[0].Message, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(plaintext))
}

func TestHandleMessage_ClosedHandleFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.InitializeSecureChannel(ctx, "alice", nil)
	require.NoError(t, err)
	_, err = svc.InitializeSecureChannel(ctx, "bob", nil)
	require.NoError(t, err)

	// хэндл есть, но транспорт уже не открыт
	b.conns.Register("bob", &fakeConn{open: false})

	receipt, err := svc.HandleMessage(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	assert.False(t, receipt.Delivered)
	assert.Len(t, b.messages.envs, 1)
}

func TestHandleMessage_SendFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.InitializeSecureChannel(ctx, "alice", nil)
	require.NoError(t, err)
	_, err = svc.InitializeSecureChannel(ctx, "bob", nil)
	require.NoError(t, err)

	b.conns.Register("bob", &fakeConn{open: true, fail: true})

	receipt, err := svc.HandleMessage(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	assert.False(t, receipt.Delivered, "failed push must degrade to store-and-forward")
	assert.Len(t, b.messages.envs, 1)
}

func TestHandleMessage_Malformed(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.HandleMessage(ctx, "alice", "", "hi")
	assert.ErrorIs(t, err, service.ErrMalformedMessage)

	_, err = svc.HandleMessage(ctx, "alice", "bob", "")
	assert.ErrorIs(t, err, service.ErrMalformedMessage)

	assert.Empty(t, b.messages.envs, "no log entry for malformed messages")
}

func TestHandleMessage_ChannelUnavailable(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	// ни у одной из сторон нет ключевого материала
	_, err := svc.HandleMessage(ctx, "alice", "bob", "hi")
	assert.ErrorIs(t, err, service.ErrChannelUnavailable)
}

func TestHandleMessage_PeerSideMaterialSuffices(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	// у отправителя только публичное значение (приватный скаляр у клиента),
	// у получателя серверная пара: DH считается со стороны получателя
	kp, err := svc.InitializeSecureChannel(ctx, "bob", nil)
	require.NoError(t, err)
	require.NotNil(t, kp)

	aliceKp, err := dhgroup.GenerateKeyPair()
	require.NoError(t, err)
	_, err = svc.InitializeSecureChannel(ctx, "alice", aliceKp.Public)
	require.NoError(t, err)

	receipt, err := svc.HandleMessage(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	assert.False(t, receipt.Delivered)
}

func TestHandleMessage_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	b.secrets.err = errors.New("redis: connection refused")
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.HandleMessage(ctx, "alice", "bob", "hi")
	assert.ErrorIs(t, err, service.ErrStorageUnavailable)
}

func TestHandleMessage_ExpiredSecretReestablishes(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.InitializeSecureChannel(ctx, "alice", nil)
	require.NoError(t, err)
	_, err = svc.InitializeSecureChannel(ctx, "bob", nil)
	require.NoError(t, err)

	// протухшая запись всё ещё физически лежит в сторадже
	stale := domain.SessionSecret{
		Key:       make([]byte, 32),
		CreatedAt: time.Now().Add(-2 * time.Hour),
		TTL:       time.Hour,
	}
	b.secrets.recs[pairKey("alice", "bob")] = stale

	receipt, err := svc.HandleMessage(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.MessageID)

	rec := b.secrets.recs[pairKey("alice", "bob")]
	assert.NotEqual(t, stale.Key, rec.Key, "expired secret must be replaced via re-handshake")
}

func TestGetMessages_AllConversations(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := svc.InitializeSecureChannel(ctx, id, nil)
		require.NoError(t, err)
	}

	_, err := svc.HandleMessage(ctx, "alice", "bob", "to bob")
	require.NoError(t, err)
	_, err = svc.HandleMessage(ctx, "carol", "alice", "to alice")
	require.NoError(t, err)
	_, err = svc.HandleMessage(ctx, "carol", "bob", "not alice's")
	require.NoError(t, err)

	envs, err := svc.GetMessages(ctx, "alice", "")
	require.NoError(t, err)
	assert.Len(t, envs, 2)
}

func TestDecryptWithSession(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.InitializeSecureChannel(ctx, "alice", nil)
	require.NoError(t, err)
	_, err = svc.InitializeSecureChannel(ctx, "bob", nil)
	require.NoError(t, err)

	// сначала relay устанавливает секрет пары
	_, err = svc.HandleMessage(ctx, "alice", "bob", "warmup")
	require.NoError(t, err)

	rec := b.secrets.recs[pairKey("alice", "bob")]
	env, err := envelope.Seal([]byte("probe"), rec.Key)
	require.NoError(t, err)

	plaintext, err := svc.DecryptWithSession(ctx, "alice", "bob", env)
	require.NoError(t, err)
	assert.Equal(t, "probe", string(plaintext))

	// испорченная метка целостности не проходит
	env.Hash = "00"
	_, err = svc.DecryptWithSession(ctx, "alice", "bob", env)
	assert.Error(t, err)
}

func TestDecryptWithSession_NoSession(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	env := envelope.Envelope{IV: "", Ciphertext: "", Hash: ""}
	_, err := svc.DecryptWithSession(ctx, "alice", "bob", env)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestInitializeSecureChannel_RejectsDegeneratePublic(t *testing.T) {
	ctx := context.Background()
	b := newBench()
	svc := service.NewService(b.keys, b.secrets, b.messages, b.conns, time.Hour)

	_, err := svc.InitializeSecureChannel(ctx, "alice", big.NewInt(1))
	assert.Error(t, err)
	_, ok := b.keys.pub["alice"]
	assert.False(t, ok, "degenerate public value must not be stored")
}
