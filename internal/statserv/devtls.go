package statserv

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"math/big"
	"net"
	"time"
)

// DevTLS builds a throwaway server credential for the stats endpoint: a
// self-signed ECDSA P-256 certificate covering the given hosts, valid for
// two days, already wrapped in a TLS 1.3 config. The endpoint only ever
// carries debug data, so clients are expected to pin or skip verification;
// production deployments should hand NewServer a real certificate instead.
func DevTLS(hosts ...string) (*tls.Config, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 64))
	if err != nil {
		return nil, err
	}

	tmpl := x509.Certificate{
		SerialNumber: serial,
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(48 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
			continue
		}
		tmpl.DNSNames = append(tmpl.DNSNames, h)
	}

	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	// The DER certificate and key pair go straight into the config; no PEM
	// round-trip is needed for an in-memory credential.
	cert := tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
	return listenerTLS(&tls.Config{Certificates: []tls.Certificate{cert}}), nil
}
