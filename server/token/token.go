// Package token has the signed play tokens that tie a websocket connection
// to a saved session.
package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/notea/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer is the "iss" claim of every token.
	Issuer = "ntserver"

	// Lifetime is how long a token is good for after it is generated.
	Lifetime = 30 * 24 * time.Hour

	// QueryParam is the query parameter a token can be given in when the
	// client cannot set headers, as with browser websockets.
	QueryParam = "token"
)

// Get returns the token in the request. A bearer token in the Authorization
// header takes priority over one in the query string.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		if tok := strings.TrimSpace(req.URL.Query().Get(QueryParam)); tok != "" {
			return tok, nil
		}
		return "", fmt.Errorf("no authorization header or %s parameter present", QueryParam)
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// Validate checks the signature and claims of tok and returns the session it
// was generated for. The session must still exist in db.
func Validate(ctx context.Context, tok string, secret []byte, db dao.SessionRepository) (dao.Session, error) {
	var sesh dao.Session

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		// which session is it? we need this for further verification
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		sesh, err = db.GetByID(ctx, id)
		if err != nil {
			if err == dao.ErrNotFound {
				return nil, fmt.Errorf("subject does not exist")
			} else {
				return nil, fmt.Errorf("subject could not be validated")
			}
		}

		return signKey(secret, sesh), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(Issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Session{}, err
	}

	return sesh, nil
}

// Generate creates a token for the session.
func Generate(secret []byte, sesh dao.Session) (string, error) {
	claims := &jwt.MapClaims{
		"iss": Issuer,
		"exp": time.Now().Add(Lifetime).Unix(),
		"sub": sesh.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signKey(secret, sesh))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// the creation time is part of the key so a token cannot outlive a session
// that was deleted and recreated with the same ID.
func signKey(secret []byte, sesh dao.Session) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(fmt.Sprintf("%d", sesh.Created.Unix()))...)
	return key
}
