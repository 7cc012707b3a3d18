package host

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/loginkeeper/internal/auth"
	"github.com/dmitrijs2005/loginkeeper/internal/common"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/models"
	"github.com/dmitrijs2005/loginkeeper/internal/services"
)

// Request is one extension call. Params is op-specific.
type Request struct {
	Id     uint64          `json:"id"`
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	Id     uint64    `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Environment is the wire form of models.Environment.
type Environment struct {
	Id               string `json:"id"`
	Name             string `json:"name"`
	LoginURL         string `json:"loginUrl"`
	LoginButtonId    string `json:"loginButtonId,omitempty"`
	LoginButtonClass string `json:"loginButtonClass,omitempty"`
}

// Credential is the wire form of models.Credential. Password carries the
// stored value on CRUD ops and the decrypted value only in fill results.
type Credential struct {
	Id       string `json:"id"`
	EnvId    string `json:"envId"`
	Username string `json:"username"`
	Account  string `json:"account"`
	Password string `json:"password"`
}

func toWireEnv(e *models.Environment) Environment {
	return Environment{
		Id:               e.Id,
		Name:             e.Name,
		LoginURL:         e.LoginURL,
		LoginButtonId:    e.LoginButtonId,
		LoginButtonClass: e.LoginButtonClass,
	}
}

func fromWireEnv(e Environment) models.Environment {
	return models.Environment{
		Id:               e.Id,
		Name:             e.Name,
		LoginURL:         e.LoginURL,
		LoginButtonId:    e.LoginButtonId,
		LoginButtonClass: e.LoginButtonClass,
	}
}

func toWireCred(c *models.Credential) Credential {
	return Credential{Id: c.Id, EnvId: c.EnvId, Username: c.Username, Account: c.Account, Password: c.Password}
}

func fromWireCred(c Credential) models.Credential {
	return models.Credential{Id: c.Id, EnvId: c.EnvId, Username: c.Username, Account: c.Account, Password: c.Password}
}

// Handler routes extension requests to the services. Decrypted passwords
// leave the host only through the "fill" and "credentials.reveal" ops, both
// of which require a live unlock session.
type Handler struct {
	envs     services.EnvironmentService
	creds    services.CredentialService
	secrets  services.SecretService
	sessions *auth.Sessions
	log      logging.Logger
}

func NewHandler(
	envs services.EnvironmentService,
	creds services.CredentialService,
	secrets services.SecretService,
	sessions *auth.Sessions,
	log logging.Logger,
) *Handler {
	return &Handler{envs: envs, creds: creds, secrets: secrets, sessions: sessions, log: log.With("component", "host")}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrorBadRequest):
		return "bad_request"
	case errors.Is(err, common.ErrorMessageTooLarge):
		return "bad_request"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrNoMasterSecret):
		return "unauthorized"
	default:
		return "internal"
	}
}

func failure(id uint64, err error) Response {
	return Response{Id: id, Error: &ErrorInfo{Code: errorCode(err), Message: err.Error()}}
}

func success(id uint64, result any) Response {
	return Response{Id: id, Result: result}
}

func decodeParams[T any](req Request) (T, error) {
	var params T
	if len(req.Params) == 0 {
		return params, fmt.Errorf("%w: missing params for %q", common.ErrorBadRequest, req.Op)
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return params, fmt.Errorf("%w: %v", common.ErrorBadRequest, err)
	}
	return params, nil
}

func (h *Handler) requireSession(token string) error {
	if token == "" {
		return common.ErrorUnauthorized
	}
	_, err := h.sessions.Verify(token)
	return err
}

// Handle dispatches a single request. It never panics outward and always
// produces a response carrying the request id.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	switch req.Op {

	case "match":
		params, err := decodeParams[struct {
			URL string `json:"url"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		env, ok, err := h.envs.Match(ctx, params.URL)
		if err != nil {
			return failure(req.Id, err)
		}
		if !ok {
			return success(req.Id, struct {
				Environment *Environment `json:"environment"`
			}{nil})
		}
		wire := toWireEnv(env)
		return success(req.Id, struct {
			Environment *Environment `json:"environment"`
		}{&wire})

	case "unlock":
		params, err := decodeParams[struct {
			Secret string `json:"secret"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		stored, ok, err := h.secrets.GetMasterSecret(ctx)
		if err != nil {
			return failure(req.Id, err)
		}
		if !ok {
			return failure(req.Id, common.ErrNoMasterSecret)
		}
		if subtle.ConstantTimeCompare([]byte(stored), []byte(params.Secret)) != 1 {
			return failure(req.Id, common.ErrorUnauthorized)
		}
		token, err := h.sessions.Issue()
		if err != nil {
			return failure(req.Id, err)
		}
		return success(req.Id, struct {
			Token string `json:"token"`
		}{token})

	case "secret.set":
		params, err := decodeParams[struct {
			Secret string `json:"secret"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		if err := h.secrets.SetMasterSecret(ctx, params.Secret); err != nil {
			return failure(req.Id, err)
		}
		return success(req.Id, struct{}{})

	case "fill":
		params, err := decodeParams[struct {
			Token string `json:"token"`
			EnvId string `json:"envId"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		if err := h.requireSession(params.Token); err != nil {
			return failure(req.Id, err)
		}
		creds, err := h.creds.Fill(ctx, params.EnvId)
		if err != nil {
			return failure(req.Id, err)
		}
		wire := make([]Credential, 0, len(creds))
		for i := range creds {
			wire = append(wire, toWireCred(&creds[i]))
		}
		return success(req.Id, struct {
			Credentials []Credential `json:"credentials"`
		}{wire})

	case "environments.list":
		envs, err := h.envs.List(ctx)
		if err != nil {
			return failure(req.Id, err)
		}
		wire := make([]Environment, 0, len(envs))
		for i := range envs {
			wire = append(wire, toWireEnv(&envs[i]))
		}
		return success(req.Id, struct {
			Environments []Environment `json:"environments"`
		}{wire})

	case "environments.add":
		params, err := decodeParams[struct {
			Environment Environment `json:"environment"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		saved, err := h.envs.Add(ctx, fromWireEnv(params.Environment))
		if err != nil {
			return failure(req.Id, err)
		}
		wire := toWireEnv(saved)
		return success(req.Id, struct {
			Environment Environment `json:"environment"`
		}{wire})

	case "environments.update":
		params, err := decodeParams[struct {
			Environment Environment `json:"environment"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		if err := h.envs.Update(ctx, fromWireEnv(params.Environment)); err != nil {
			return failure(req.Id, err)
		}
		return success(req.Id, struct{}{})

	case "environments.delete":
		params, err := decodeParams[struct {
			Id string `json:"id"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		if err := h.envs.Delete(ctx, params.Id); err != nil {
			return failure(req.Id, err)
		}
		return success(req.Id, struct{}{})

	case "credentials.list":
		params, err := decodeParams[struct {
			EnvId string `json:"envId"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		creds, err := h.creds.ListByEnv(ctx, params.EnvId)
		if err != nil {
			return failure(req.Id, err)
		}
		wire := make([]Credential, 0, len(creds))
		for i := range creds {
			wire = append(wire, toWireCred(&creds[i]))
		}
		return success(req.Id, struct {
			Credentials []Credential `json:"credentials"`
		}{wire})

	case "credentials.add":
		params, err := decodeParams[struct {
			Credential Credential `json:"credential"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		saved, err := h.creds.Add(ctx, fromWireCred(params.Credential))
		if err != nil {
			return failure(req.Id, err)
		}
		wire := toWireCred(saved)
		return success(req.Id, struct {
			Credential Credential `json:"credential"`
		}{wire})

	case "credentials.update":
		params, err := decodeParams[struct {
			Credential Credential `json:"credential"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		if err := h.creds.Update(ctx, fromWireCred(params.Credential)); err != nil {
			return failure(req.Id, err)
		}
		return success(req.Id, struct{}{})

	case "credentials.delete":
		params, err := decodeParams[struct {
			Id string `json:"id"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		if err := h.creds.Delete(ctx, params.Id); err != nil {
			return failure(req.Id, err)
		}
		return success(req.Id, struct{}{})

	case "credentials.reveal":
		params, err := decodeParams[struct {
			Token string `json:"token"`
			Id    string `json:"id"`
		}](req)
		if err != nil {
			return failure(req.Id, err)
		}
		if err := h.requireSession(params.Token); err != nil {
			return failure(req.Id, err)
		}
		cred, err := h.creds.Reveal(ctx, params.Id)
		if err != nil {
			return failure(req.Id, err)
		}
		wire := toWireCred(cred)
		return success(req.Id, struct {
			Credential Credential `json:"credential"`
		}{wire})

	default:
		return failure(req.Id, fmt.Errorf("%w: unknown op %q", common.ErrorBadRequest, req.Op))
	}
}

// Serve reads frames from r and writes one response per request to w until
// the stream ends or ctx is cancelled. Malformed JSON gets a bad_request
// response; framing errors end the loop since the stream can no longer be
// trusted.
func (h *Handler) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload, err := ReadMessage(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var req Request
		var resp Response
		if err := json.Unmarshal(payload, &req); err != nil {
			resp = failure(0, fmt.Errorf("%w: %v", common.ErrorBadRequest, err))
		} else {
			resp = h.Handle(ctx, req)
		}

		out, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		if err := WriteMessage(w, out); err != nil {
			return err
		}
	}
}
