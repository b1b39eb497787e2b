package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/warelog/scanpost/internal/models"
)

type wireRecord struct {
	ID       uint64 `json:"id"`
	UserName string `json:"user_name"`
	BoxID    string `json:"boxid"`
	TTN      string `json:"ttn"`
	Datetime string `json:"datetime"`
	Note     string `json:"note,omitempty"`
	Error    string `json:"error,omitempty"`
}

func toWire(r models.Record) wireRecord {
	w := wireRecord{
		ID:       r.ID,
		UserName: r.OperatorName,
		BoxID:    r.BoxID,
		TTN:      r.ShipmentID,
		Note:     r.Note,
	}
	if r.RecordedAt != nil {
		w.Datetime = r.RecordedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return w
}

func newRouter(secret string, st *memStore) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			writeError(w, http.StatusBadRequest, "username is required")
			return
		}

		// Демо-авторизация: любой пароль подходит, роль по имени.
		role, level := "operator", 1
		if req.Username == "admin" {
			role, level = "admin", 10
		}

		claims := jwt.MapClaims{
			"sub":  req.Username,
			"role": role,
			"exp":  time.Now().Add(12 * time.Hour).Unix(),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "sign token")
			return
		}

		writeJSON(w, map[string]any{
			"token":      tok,
			"user_name":  req.Username,
			"role":       role,
			"role_level": level,
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth(secret))

		r.Post("/api/records", func(w http.ResponseWriter, r *http.Request) {
			var req wireRecord
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "bad record body")
				return
			}
			if req.BoxID == "" || req.TTN == "" {
				writeError(w, http.StatusBadRequest, "boxid and ttn are required")
				return
			}
			operator := req.UserName
			if operator == "" {
				operator = operatorFrom(r)
			}
			rec := st.add(operator, req.BoxID, req.TTN)
			writeJSON(w, map[string]any{"id": rec.ID, "note": rec.Note})
		})

		r.Get("/api/records", func(w http.ResponseWriter, r *http.Request) {
			items := st.listRecords()
			out := make([]wireRecord, 0, len(items))
			for _, it := range items {
				out = append(out, toWire(it))
			}
			writeJSON(w, out)
		})

		r.Get("/api/errors", func(w http.ResponseWriter, r *http.Request) {
			items := st.listErrors()
			out := make([]wireRecord, 0, len(items))
			for _, it := range items {
				wr := toWire(it.Record)
				wr.Error = it.Reason
				out = append(out, wr)
			}
			writeJSON(w, out)
		})

		r.Delete("/api/records/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad id")
				return
			}
			if !st.deleteRecord(id) {
				writeError(w, http.StatusNotFound, "no such record")
				return
			}
			writeJSON(w, map[string]string{"status": "deleted"})
		})

		r.Delete("/api/errors/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad id")
				return
			}
			if !st.deleteError(id) {
				writeError(w, http.StatusNotFound, "no such error")
				return
			}
			writeJSON(w, map[string]string{"status": "deleted"})
		})

		r.Delete("/api/records", func(w http.ResponseWriter, r *http.Request) {
			st.clearRecords()
			writeJSON(w, map[string]string{"status": "cleared"})
		})

		r.Delete("/api/errors", func(w http.ResponseWriter, r *http.Request) {
			st.clearErrors()
			writeJSON(w, map[string]string{"status": "cleared"})
		})
	})

	return r
}

type ctxKey string

const operatorKey ctxKey = "operator"

func contextWithOperator(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operatorKey, name)
}

func operatorFrom(r *http.Request) string {
	if v, ok := r.Context().Value(operatorKey).(string); ok {
		return v
	}
	return ""
}

func requireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "bearer token required")
				return
			}
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			sub, _ := tok.Claims.GetSubject()
			ctx := contextWithOperator(r.Context(), sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
