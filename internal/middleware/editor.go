// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// EditorKey is the context key for the editor name.
	EditorKey contextKey = "editor"

	// EditorHeader carries the name recorded on instruction revisions and
	// approvals.
	EditorHeader = "X-Editor"

	// AnonymousEditor is used when no editor header is sent.
	AnonymousEditor = "anonymous"

	maxEditorLen = 100
)

// Editor stores the requesting editor's name in the context. Authentication
// happens upstream; the name is only used for attribution.
func Editor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.Header.Get(EditorHeader))
		if len(name) > maxEditorLen {
			name = name[:maxEditorLen]
			for !utf8.ValidString(name) {
				name = name[:len(name)-1]
			}
		}
		if name == "" {
			name = AnonymousEditor
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), EditorKey, name)))
	})
}

// EditorFromCtx returns the editor name, or AnonymousEditor when the Editor
// middleware did not run.
func EditorFromCtx(ctx context.Context) string {
	if name, ok := ctx.Value(EditorKey).(string); ok {
		return name
	}
	return AnonymousEditor
}
