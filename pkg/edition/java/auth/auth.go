// Package auth implements the online-mode authentication flow (§4.5): a
// process-wide RSA keypair for the EncryptionRequest challenge, and the
// Mojang session-server "hasJoined" verification once the client's
// EncryptionResponse has been decrypted. Modeled on the hasJoined/join
// request shape used by go-mclib-protocol's session_server package, ported
// to the teacher's zap logging and valyala/fasthttp for the outbound call.
package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	uuidutil "github.com/birchwood-mc/gate/pkg/util/uuid"
	"github.com/google/uuid"
)

const sessionServerBaseURL = "https://sessionserver.mojang.com"

// KeyPair is the proxy's RSA-1024 keypair used to challenge clients during
// the encryption handshake. Minecraft's protocol fixes the key size at 1024
// bits and the key is generated once per process, not per connection.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
	// DER is the ASN.1 PKIX encoding of Public, sent verbatim in
	// EncryptionRequest.
	DER []byte
}

var (
	keyPairOnce sync.Once
	keyPair     *KeyPair
	keyPairErr  error
)

// SharedKeyPair lazily generates (once per process) and returns the RSA
// keypair used for all EncryptionRequest challenges.
func SharedKeyPair() (*KeyPair, error) {
	keyPairOnce.Do(func() {
		priv, err := rsa.GenerateKey(rand.Reader, 1024)
		if err != nil {
			keyPairErr = err
			return
		}
		der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
		if err != nil {
			keyPairErr = err
			return
		}
		keyPair = &KeyPair{Private: priv, Public: &priv.PublicKey, DER: der}
	})
	return keyPair, keyPairErr
}

// Profile is the authenticated identity Mojang returns from hasJoined.
type Profile struct {
	ID         uuid.UUID
	Name       string
	Properties []Property
}

type Property struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

type hasJoinedResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// ErrNotAuthenticated is returned when Mojang's hasJoined check comes back
// empty (204/404): the client never completed the Yggdrasil join request,
// or is attempting a replay with a stale serverId.
var ErrNotAuthenticated = fmt.Errorf("auth: player has not authenticated with Mojang's session server")

// Authenticator is the collaborator ClientSession calls into once it has
// decrypted EncryptionResponse, to verify the player's premium identity.
type Authenticator interface {
	HasJoined(username, serverIDHash, clientIP string) (*Profile, error)
}

type mojangAuthenticator struct {
	client *fasthttp.Client
}

// NewMojangAuthenticator returns an Authenticator backed by Mojang's real
// session server.
func NewMojangAuthenticator() Authenticator {
	return &mojangAuthenticator{client: &fasthttp.Client{
		MaxIdleConnDuration: time.Minute,
		ReadTimeout:         5 * time.Second,
		WriteTimeout:        5 * time.Second,
	}}
}

func (a *mojangAuthenticator) HasJoined(username, serverIDHash, clientIP string) (*Profile, error) {
	q := url.Values{}
	q.Set("username", username)
	q.Set("serverId", serverIDHash)
	if clientIP != "" {
		q.Set("ip", clientIP)
	}
	uri := sessionServerBaseURL + "/session/minecraft/hasJoined?" + q.Encode()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", "birchwood-gate")

	if err := a.client.DoTimeout(req, resp, 5*time.Second); err != nil {
		return nil, fmt.Errorf("auth: hasJoined request failed: %w", err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusNoContent, fasthttp.StatusNotFound:
		return nil, ErrNotAuthenticated
	case fasthttp.StatusOK:
		var body hasJoinedResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return nil, fmt.Errorf("auth: malformed hasJoined response: %w", err)
		}
		id, err := uuid.Parse(body.ID)
		if err != nil {
			// Mojang's hasJoined response omits dashes; retry with them
			// inserted in the canonical 8-4-4-4-12 layout.
			id, err = uuid.Parse(insertDashes(body.ID))
			if err != nil {
				return nil, fmt.Errorf("auth: invalid profile id %q: %w", body.ID, err)
			}
		}
		return &Profile{ID: id, Name: body.Name, Properties: body.Properties}, nil
	default:
		return nil, fmt.Errorf("auth: hasJoined returned status %d", resp.StatusCode())
	}
}

func insertDashes(id string) string {
	if len(id) != 32 {
		return id
	}
	return id[0:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:32]
}

// ServerIDHash re-exports the signed-bignum digest helper so callers in the
// proxy package don't need to import pkg/util/uuid directly for this one
// call.
func ServerIDHash(serverID string, sharedSecret, publicKeyDER []byte) string {
	return uuidutil.ServerIDHash(serverID, sharedSecret, publicKeyDER)
}

// OfflineProfile derives the deterministic offline-mode identity (§4.5).
func OfflineProfile(username string) Profile {
	return Profile{ID: uuidutil.OfflinePlayer(username), Name: username}
}
