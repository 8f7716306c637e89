package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/message"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

type Handler struct {
	svc    *message.Service
	hub    *message.Hub
	outbox *message.Outbox
}

func NewHandler(svc *message.Service, hub *message.Hub, outbox *message.Outbox) *Handler {
	return &Handler{svc: svc, hub: hub, outbox: outbox}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.threads)
	r.Post("/", h.send)
	r.Post("/{id}/reponses", h.reply)
	r.Patch("/{id}/statut", h.setStatut)
	r.Get("/stream", h.stream)
	r.Get("/envois/{tempID}", h.sendStatus)
}

func (h *Handler) threads(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	threads, err := h.svc.Threads(r.Context(), identity)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(threads); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type sendRequest struct {
	Sujet       string `json:"sujet"`
	Contenu     string `json:"contenu"`
	TypeMessage string `json:"type_message"`
}

type sendResponse struct {
	TempID  uuid.UUID        `json:"temp_id"`
	Message *message.Message `json:"message"`
}

// send registers the message in the outbox before writing it, so a
// client rendering optimistically can poll the temp id if the
// connection drops mid-request.
func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tempID := h.outbox.Begin()

	m, err := h.svc.Send(r.Context(), identity, message.SendParams{
		Sujet:       req.Sujet,
		Contenu:     req.Contenu,
		TypeMessage: message.Type(req.TypeMessage),
	})
	if err != nil {
		if failErr := h.outbox.Fail(tempID, err); failErr != nil {
			slog.Error("failed to mark send failed", "error", failErr)
		}

		if errors.Is(err, auth.ErrForbidden) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	if err := h.outbox.Confirm(tempID, m.ID); err != nil {
		slog.Error("failed to confirm send", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(sendResponse{TempID: tempID, Message: m}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type replyRequest struct {
	Contenu string `json:"contenu"`
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	parentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.Reply(r.Context(), identity, message.ReplyParams{
		ParentID: parentID,
		Contenu:  req.Contenu,
	})
	if err != nil {
		switch {
		case errors.Is(err, message.ErrNotFound):
			http.Error(w, "message not found", http.StatusNotFound)
		case errors.Is(err, message.ErrNotAThread):
			http.Error(w, "replies must target a root message", http.StatusBadRequest)
		case errors.Is(err, auth.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(m); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type setStatutRequest struct {
	Statut string `json:"statut"`
}

func (h *Handler) setStatut(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req setStatutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetStatut(r.Context(), identity, id, message.Statut(req.Statut)); err != nil {
		switch {
		case errors.Is(err, message.ErrNotFound):
			http.Error(w, "message not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sendStatus(w http.ResponseWriter, r *http.Request) {
	tempID, err := uuid.Parse(chi.URLParam(r, "tempID"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	status, err := h.outbox.Status(tempID)
	if err != nil {
		http.Error(w, "unknown send", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := struct {
		TempID    uuid.UUID `json:"temp_id"`
		MessageID uuid.UUID `json:"message_id,omitempty"`
		State     string    `json:"state"`
		Error     string    `json:"error,omitempty"`
	}{
		TempID:    status.TempID,
		MessageID: status.MessageID,
		State:     string(status.State),
		Error:     status.Error,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

const streamHeartbeat = 25 * time.Second

// stream pushes new messages over server-sent events. Players only
// receive messages from their own threads.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	if identity == nil {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub := h.hub.Subscribe()
	defer sub.Close()

	if s := r.URL.Query().Get("seen"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			sub.MarkSeen(id)
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case e := <-sub.C:
			if !visibleTo(identity, e) {
				continue
			}

			payload, err := json.Marshal(e.Message)
			if err != nil {
				slog.Error("failed to encode event", "error", err)
				continue
			}

			fmt.Fprintf(w, "id: %s\nevent: message\ndata: %s\n\n", e.Message.ID, payload)
			flusher.Flush()
		}
	}
}

func visibleTo(identity *auth.Identity, e message.Event) bool {
	if identity.Role != rbac.RoleJoueur {
		return true
	}
	return identity.MemberID != nil && e.ThreadOwner != nil && *identity.MemberID == *e.ThreadOwner
}
