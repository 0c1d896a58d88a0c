package identity

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
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

	"golang.org/x/sync/singleflight"
)

// ErrKeySetUnavailable means the identity provider's key set could not be
// fetched, so no token can be checked. It is not a verdict on the token.
var ErrKeySetUnavailable = errors.New("identity key set unavailable")

// refetchCooldown bounds how often an unknown kid or a failed fetch can hit
// the identity provider.
const refetchCooldown = 30 * time.Second

// jwksCache holds RSA and EC keys by kid and refetches when stale or when a
// kid is unknown, at most once per cooldown.
type jwksCache struct {
	httpClient *http.Client
	group      singleflight.Group

	mu      sync.RWMutex
	jwksURL string
	keys    map[string]any

	fetchedAt   time.Time
	attemptedAt time.Time
	lastErr     error
	ttl         time.Duration
	cooldown    time.Duration
	now         func() time.Time
}

func newJWKSCache(httpClient *http.Client) *jwksCache {
	return &jwksCache{
		httpClient: httpClient,
		keys:       map[string]any{},
		ttl:        6 * time.Hour,
		cooldown:   refetchCooldown,
		now:        time.Now,
	}
}

func (j *jwksCache) setURL(url string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jwksURL = url
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`

	N string `json:"n"`
	E string `json:"e"`

	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

func (j *jwksCache) getKey(ctx context.Context, kid string) (any, error) {
	j.mu.RLock()
	now := j.now()
	key := j.keys[kid]
	stale := now.Sub(j.fetchedAt) > j.ttl
	cooling := !j.attemptedAt.IsZero() && now.Sub(j.attemptedAt) < j.cooldown
	lastErr := j.lastErr
	url := j.jwksURL
	j.mu.RUnlock()

	if key != nil && !stale {
		return key, nil
	}
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: jwks url not set", ErrKeySetUnavailable)
	}
	if cooling {
		switch {
		case key != nil:
			return key, nil
		case lastErr != nil:
			return nil, lastErr
		default:
			return nil, fmt.Errorf("kid not found in jwks: %s", kid)
		}
	}

	_, err, _ := j.group.Do(url, func() (any, error) {
		return nil, j.refresh(ctx, url)
	})
	if err != nil {
		// serve the old key while the provider is unreachable
		if key != nil {
			return key, nil
		}
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	key = j.keys[kid]
	if key == nil {
		return nil, fmt.Errorf("kid not found in jwks: %s", kid)
	}
	return key, nil
}

// refresh fetches the key set and starts the cooldown. A fetch cut short by
// the caller's context does not count as an attempt.
func (j *jwksCache) refresh(ctx context.Context, url string) error {
	next, err := j.fetch(ctx, url)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.attemptedAt = j.now()
	if err != nil {
		j.lastErr = fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
		return j.lastErr
	}
	j.lastErr = nil
	j.keys = next
	j.fetchedAt = j.attemptedAt
	return nil
}

func (j *jwksCache) fetch(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := j.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("jwks fetch failed: %s", res.Status)
	}

	var set jwkSet
	if err := json.NewDecoder(res.Body).Decode(&set); err != nil {
		return nil, err
	}

	next := map[string]any{}
	for _, k := range set.Keys {
		if strings.TrimSpace(k.Kid) == "" {
			continue
		}
		switch k.Kty {
		case "RSA":
			if pub, err := rsaFromModExp(k.N, k.E); err == nil {
				next[k.Kid] = pub
			}
		case "EC":
			if pub, err := ecdsaFromXY(k.Crv, k.X, k.Y); err == nil {
				next[k.Kid] = pub
			}
		}
	}
	if len(next) == 0 {
		return nil, fmt.Errorf("jwks contained no usable keys")
	}
	return next, nil
}

func rsaFromModExp(nB64, eB64 string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(nB64)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(eB64)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eb {
		e = e<<8 + int(b)
	}
	if e == 0 {
		return nil, fmt.Errorf("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}

func ecdsaFromXY(crv, xB64, yB64 string) (*ecdsa.PublicKey, error) {
	if crv != "P-256" {
		return nil, fmt.Errorf("unsupported curve: %s", crv)
	}
	xb, err := base64.RawURLEncoding.DecodeString(xB64)
	if err != nil {
		return nil, err
	}
	yb, err := base64.RawURLEncoding.DecodeString(yB64)
	if err != nil {
		return nil, err
	}
	x := new(big.Int).SetBytes(xb)
	y := new(big.Int).SetBytes(yb)
	curve := elliptic.P256()
	if !curve.IsOnCurve(x, y) {
		return nil, fmt.Errorf("invalid EC point")
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}
