package mqtt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/alfred/core/metrics"
	"github.com/kilianp07/alfred/core/model"
)

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o644))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o644))
	require.NoError(t, os.WriteFile(caFile, certPEM, 0o644))
	return
}

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

// mockClient implements pahoClient for tests
type mockClient struct {
	opts        *paho.ClientOptions
	published   []published
	publishErrs []error
	connectErr  error
	disconnects int
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(nil)
	}
	return &dummyToken{err: m.connectErr}
}
func (m *mockClient) Disconnect(uint) { m.disconnects++ }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	b, _ := payload.([]byte)
	m.published = append(m.published, published{topic, qos, retained, b})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

func withMock(t *testing.T, mc *mockClient) {
	t.Helper()
	prev := newMQTTClient
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = prev })
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	tlsCfg, err := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}.LoadTLSConfig()
	require.NoError(t, err)
	assert.Len(t, tlsCfg.Certificates, 1)
	assert.NotNil(t, tlsCfg.RootCAs)

	tlsCfg, err = Config{UseTLS: true, CABundle: ca}.LoadTLSConfig()
	require.NoError(t, err)
	assert.Empty(t, tlsCfg.Certificates)

	_, err = Config{UseTLS: true}.LoadTLSConfig()
	assert.Error(t, err)
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, "p", opts.Password)
}

func TestNewBalancePublisherRequiresBroker(t *testing.T) {
	_, err := NewBalancePublisher(Config{})
	assert.Error(t, err)
}

func TestNewBalancePublisherConnectError(t *testing.T) {
	withMock(t, &mockClient{connectErr: fmt.Errorf("refused")})
	_, err := NewBalancePublisher(Config{Broker: "tcp://localhost:1883"})
	assert.EqualError(t, err, "refused")
}

func TestRecordBalancePublishesJSON(t *testing.T) {
	mc := &mockClient{}
	withMock(t, mc)
	p, err := NewBalancePublisher(Config{Broker: "tcp://localhost:1883", TopicPrefix: "van/", QoS: 1, Retain: true})
	require.NoError(t, err)
	assert.NotEmpty(t, mc.opts.ClientID)

	ev := coremetrics.BalanceEvent{
		SessionID: "s1",
		Devices:   1,
		Time:      time.UnixMilli(1700000000000),
		Result: model.PowerBalanceResult{
			TotalCapacityWh:   2400,
			TotalDailyUsageWh: 2500,
			NetDailyWh:        -2500,
			Runtime:           model.FiniteRuntime(0.96),
			Status:            model.StatusCritical,
		},
	}
	require.NoError(t, p.RecordBalance(ev))
	require.Len(t, mc.published, 1)
	msg := mc.published[0]
	assert.Equal(t, "van/s1/balance", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retain)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, "s1", got["session_id"])
	assert.Equal(t, 1.0, got["runtime_days_rounded"])
	assert.Equal(t, model.StatusCritical.Message(), got["message"])
	result := got["result"].(map[string]any)
	assert.Equal(t, "critical", result["status"])
	assert.Equal(t, 0.96, result["runtime_days"])
}

func TestRecordBalanceInfiniteRuntime(t *testing.T) {
	mc := &mockClient{}
	withMock(t, mc)
	p, err := NewBalancePublisher(Config{Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	require.NoError(t, p.RecordBalance(coremetrics.BalanceEvent{
		SessionID: "s2",
		Result:    model.PowerBalanceResult{TotalCapacityWh: 1, Runtime: model.InfiniteRuntime()},
	}))
	require.Len(t, mc.published, 1)
	assert.Equal(t, "alfred/s2/balance", mc.published[0].topic)
	assert.Contains(t, string(mc.published[0].payload), `"runtime_days":"infinite"`)
	assert.NotContains(t, string(mc.published[0].payload), "runtime_days_rounded")
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	withMock(t, mc)
	p, err := NewBalancePublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	require.NoError(t, err)
	require.NoError(t, p.RecordBalance(coremetrics.BalanceEvent{SessionID: "s"}))
	assert.Len(t, mc.published, 2)

	mc.publishErrs = []error{fmt.Errorf("a"), fmt.Errorf("b")}
	assert.Error(t, p.RecordBalance(coremetrics.BalanceEvent{SessionID: "s"}))
}

func TestForgetSessionClearsRetained(t *testing.T) {
	mc := &mockClient{}
	withMock(t, mc)
	p, err := NewBalancePublisher(Config{Broker: "tcp://localhost:1883", Retain: true})
	require.NoError(t, err)
	require.NoError(t, p.ForgetSession("gone"))
	require.Len(t, mc.published, 1)
	assert.Empty(t, mc.published[0].payload)
	assert.True(t, mc.published[0].retain)

	require.NoError(t, p.Close())
	assert.Equal(t, 1, mc.disconnects)
}

func TestForgetSessionWithoutRetainIsNoop(t *testing.T) {
	mc := &mockClient{}
	withMock(t, mc)
	p, err := NewBalancePublisher(Config{Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	require.NoError(t, p.ForgetSession("gone"))
	assert.Empty(t, mc.published)
}
