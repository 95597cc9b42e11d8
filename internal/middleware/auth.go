package middleware

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"todolist/internal/config"
)

// KeySet validates bearer tokens against the identity provider. The
// provider's signing keys are discovered through its OIDC metadata
// document and cached; an unknown key id triggers one refresh so key
// rotation does not require a restart.
type KeySet struct {
	metadataURL string
	authority   string
	audience    string
	httpClient  *http.Client

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

func NewKeySet(cfg *config.Config) *KeySet {
	return &KeySet{
		metadataURL: cfg.KeycloakMetadataAddr,
		authority:   cfg.KeycloakAuthority,
		audience:    cfg.KeycloakAudience,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		keys:        map[string]*rsa.PublicKey{},
	}
}

type oidcMetadata struct {
	JWKSURI string `json:"jwks_uri"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Refresh fetches the metadata document, follows jwks_uri and replaces the
// cached key set.
func (k *KeySet) Refresh() error {
	var meta oidcMetadata
	if err := k.getJSON(k.metadataURL, &meta); err != nil {
		return fmt.Errorf("fetch oidc metadata: %w", err)
	}
	var set jwks
	if err := k.getJSON(meta.JWKSURI, &set); err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	keys := map[string]*rsa.PublicKey{}
	for _, key := range set.Keys {
		if key.Kty != "RSA" || (key.Use != "" && key.Use != "sig") {
			continue
		}
		pub, err := key.publicKey()
		if err != nil {
			continue
		}
		keys[key.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("jwks contained no usable signing keys")
	}
	k.mu.Lock()
	k.keys = keys
	k.mu.Unlock()
	return nil
}

func (k *KeySet) getJSON(url string, dest any) error {
	resp, err := k.httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (j jwk) publicKey() (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(new(big.Int).SetBytes(eb).Int64()),
	}, nil
}

// Keyfunc resolves the signing key for a token by kid, refreshing the set
// once when the kid is unknown.
func (k *KeySet) Keyfunc(token *jwt.Token) (any, error) {
	kid, _ := token.Header["kid"].(string)
	k.mu.RLock()
	pub, ok := k.keys[kid]
	k.mu.RUnlock()
	if ok {
		return pub, nil
	}
	if err := k.Refresh(); err != nil {
		return nil, err
	}
	k.mu.RLock()
	pub, ok = k.keys[kid]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}
	return pub, nil
}

// Auth validates the bearer token of a request against the identity
// provider's key set, issuer and audience. On success the token subject is
// stored in the gin context.
func Auth(ks *KeySet) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(ks.authority),
		jwt.WithAudience(ks.audience),
		jwt.WithExpirationRequired(),
	)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenStr, claims, ks.Keyfunc)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if sub, err := claims.GetSubject(); err == nil {
			c.Set("subject", sub)
		}
		c.Next()
	}
}
