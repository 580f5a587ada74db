package client

import (
	"bytes"
	"context"
	"crypto"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"code.superseriousbusiness.org/httpsig"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

const (
	ContentType = "application/activity+json"
	AcceptType  = `application/ld+json; profile="https://www.w3.org/ns/activitystreams"`
	// maxBody bounds how much of a remote response is read.
	maxBody = 1 << 20
)

var prefs = []httpsig.Algorithm{httpsig.RSA_SHA256}
var getHeaders = []string{httpsig.RequestTarget, "host", "date"}
var postHeaders = []string{httpsig.RequestTarget, "host", "date", "digest"}

// Doer is the subset of *http.Client used here.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HttpClient signs every request it sends. GETs are signed with the instance actor's key; deliveries are
// signed with the key of the sending actor.
type HttpClient struct {
	client          Doer
	userAgent       string
	key             crypto.PrivateKey
	keyID           string
	getSigner       httpsig.Signer
	getSignerMutex  sync.Mutex
	postSigner      httpsig.Signer
	postSignerMutex sync.Mutex
}

func New(client Doer, userAgent string, key crypto.PrivateKey, keyID string) (*HttpClient, error) {
	getSigner, _, err := httpsig.NewSigner(prefs, httpsig.DigestSha256, getHeaders, httpsig.Signature, 3600)
	if err != nil {
		return nil, err
	}

	postSigner, _, err := httpsig.NewSigner(prefs, httpsig.DigestSha256, postHeaders, httpsig.Signature, 3600)
	if err != nil {
		return nil, err
	}

	return &HttpClient{
		client:     client,
		userAgent:  userAgent,
		key:        key,
		keyID:      keyID,
		getSigner:  getSigner,
		postSigner: postSigner,
	}, nil
}

// Get dereferences iri and decodes the returned document.
func (c *HttpClient) Get(ctx context.Context, iri *url.URL) (map[string]any, error) {
	res, err := c.Dereference(ctx, iri)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var props map[string]any
	if err = json.NewDecoder(io.LimitReader(res.Body, maxBody)).Decode(&props); err != nil {
		log.Error().Err(err).Str("iri", iri.String()).Msg("response body unmarshaling error")
		return nil, fmt.Errorf("%w: %s", federation.ErrUnprocessablePropValue, err)
	}
	return props, nil
}

func (c *HttpClient) Dereference(ctx context.Context, iri *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iri.String(), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Accept", AcceptType)

	c.getSignerMutex.Lock()
	err = c.getSigner.SignRequest(c.key, c.keyID, req, nil)
	c.getSignerMutex.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("error while signing request")
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusNotFound || res.StatusCode == http.StatusGone {
		res.Body.Close()
		return nil, fmt.Errorf("%w: %s", federation.ErrNotFoundIRI, iri)
	}
	if res.StatusCode >= http.StatusBadRequest {
		content, _ := io.ReadAll(io.LimitReader(res.Body, maxBody))
		res.Body.Close()
		log.Error().Int("code", res.StatusCode).Bytes("response body", content).Msg("fetch error")
		return nil, &federation.DeliveryError{Inbox: iri.String(), StatusCode: res.StatusCode, Body: content}
	}
	return res, nil
}

// DeliverToActor posts activity to the inbox of to, signed with key on behalf of from.
func (c *HttpClient) DeliverToActor(ctx context.Context, key crypto.PrivateKey, from, to domain.Actor, activity map[string]any) error {
	if to.Inbox == nil {
		return fmt.Errorf("%w: inbox of %s", federation.ErrMissingProperty, to.ID)
	}

	body, err := json.Marshal(activity)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, to.Inbox.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Accept", AcceptType)
	req.Header.Set("Content-Type", ContentType)

	c.postSignerMutex.Lock()
	err = c.postSigner.SignRequest(key, from.KeyID(), req, body)
	c.postSignerMutex.Unlock()
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		content, _ := io.ReadAll(io.LimitReader(res.Body, maxBody))
		log.Error().
			Int("code", res.StatusCode).
			Bytes("response body", content).
			Str("inbox", to.Inbox.String()).
			Msg("delivery error")
		return &federation.DeliveryError{Inbox: to.Inbox.String(), StatusCode: res.StatusCode, Body: content}
	}
	return nil
}

func (c *HttpClient) setHeaders(req *http.Request) {
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set("Host", req.URL.Host)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}
