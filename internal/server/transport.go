package server

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/binary"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/robosim/robosim/internal/core/observability/log"
)

// maxFrameSize bounds a single QUIC command frame.
const maxFrameSize = 64 * 1024

// runQUIC accepts QUIC connections and reads length-prefixed JSON
// command frames from each incoming stream.
func (s *Server) runQUIC(ctx context.Context) error {
	tlsConf, err := generateInMemoryTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to generate TLS config: %w", err)
	}

	listener, err := quic.ListenAddr(s.cfg.QUICAddr, tlsConf, nil)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.QUICAddr, err)
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	s.logger.Info("quic command channel listening", log.String("addr", s.cfg.QUICAddr))

	for {
		conn, err := listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		go s.serveQUICConn(ctx, conn)
	}
}

func (s *Server) serveQUICConn(ctx context.Context, conn *quic.Conn) {
	s.logger.Debug("quic client connected", log.String("remote", conn.RemoteAddr().String()))

	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}
		go s.serveQUICStream(stream)
	}
}

// serveQUICStream reads command frames until the peer closes the
// stream. Every frame gets a JSON reply using the same framing.
func (s *Server) serveQUICStream(stream *quic.Stream) {
	defer stream.Close()

	for {
		payload, err := readFrame(stream)
		if err != nil {
			return
		}

		var req CommandRequest
		reply := map[string]string{"status": "queued"}
		if err := json.Unmarshal(payload, &req); err != nil {
			reply = map[string]string{"error": fmt.Sprintf("invalid command frame: %v", err)}
		} else if err := s.dispatch(req); err != nil {
			s.logger.Warn("rejected quic command", log.Error(err))
			reply = map[string]string{"error": err.Error()}
		}

		if err := writeFrame(stream, reply); err != nil {
			return
		}
	}
}

func readFrame(r io.Reader) ([]byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(lenBuf)
	if n == 0 || n > maxFrameSize {
		return nil, fmt.Errorf("invalid frame size %d", n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(payload)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// generateInMemoryTLSConfig creates a self-signed certificate for the
// local QUIC listener. The simulator has no certificate authority to
// speak of; clients are expected to skip verification.
func generateInMemoryTLSConfig() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Robosim"},
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	privBytes, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derBytes})

	tlsCert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{tlsCert},
		NextProtos:   []string{"robosim-quic"},
	}, nil
}
