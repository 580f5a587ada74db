package web

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"code.superseriousbusiness.org/httpsig"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/utils"
)

var algorithms = []httpsig.Algorithm{httpsig.RSA_SHA256, httpsig.RSA_SHA512}

// PostInbox accepts an activity addressed to a local actor. The request must be signed by the activity's
// actor.
func PostInbox(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := chi.URLParam(r, "name")
		if _, err := h.state.DB.GetLocalActorByUsername(ctx, name); err != nil {
			fail(w, err)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		signer, err := h.verify(ctx, r, body)
		if err != nil {
			fail(w, err)
			return
		}

		if err = h.state.Dispatcher.HandleJSON(ctx, body, signer.ID); err != nil {
			fail(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// verify checks the request signature and returns the actor owning the signing key. A stored key that fails
// verification is refreshed once, since the remote actor may have rotated it.
func (h *Handler) verify(ctx context.Context, r *http.Request, body []byte) (domain.Actor, error) {
	r.Header.Set("Host", r.Host)
	verifier, err := httpsig.NewVerifier(r)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %s", errUnauthorized, err)
	}

	if digest := r.Header.Get("Digest"); digest != "" && !digestMatches(digest, body) {
		return domain.Actor{}, fmt.Errorf("%w: digest mismatch", errUnauthorized)
	}

	keyID, err := url.Parse(verifier.KeyId())
	if err != nil || !keyID.IsAbs() {
		return domain.Actor{}, fmt.Errorf("%w: invalid key id %q", errUnauthorized, verifier.KeyId())
	}
	owner := *keyID
	owner.Fragment = ""

	actor, err := h.state.Cache.GetActor(ctx, &owner)
	if err != nil {
		log.Debug().Err(err).Str("keyId", keyID.String()).Msg("failed to resolve signing actor")
		return domain.Actor{}, fmt.Errorf("%w: unknown key %s", errUnauthorized, keyID)
	}
	if checkSignature(verifier, actor.PublicKey) == nil {
		return actor, nil
	}

	actor, err = h.state.Cache.RefreshActor(ctx, &owner)
	if err != nil {
		log.Debug().Err(err).Str("keyId", keyID.String()).Msg("failed to refresh signing actor")
		return domain.Actor{}, fmt.Errorf("%w: signature of %s", errUnauthorized, keyID)
	}
	if err = checkSignature(verifier, actor.PublicKey); err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %s", errUnauthorized, err)
	}
	return actor, nil
}

func checkSignature(verifier httpsig.Verifier, publicKeyPem string) error {
	if publicKeyPem == "" {
		return errors.New("actor has no public key")
	}
	key, err := utils.ParsePublicKeyPem(publicKeyPem)
	if err != nil {
		return err
	}

	for _, algo := range algorithms {
		if err = verifier.Verify(key, algo); err == nil {
			return nil
		}
	}
	return err
}

func digestMatches(header string, body []byte) bool {
	algo, value, ok := strings.Cut(header, "=")
	if !ok || !strings.EqualFold(algo, "SHA-256") {
		return false
	}
	sum := sha256.Sum256(body)
	return value == base64.StdEncoding.EncodeToString(sum[:])
}
