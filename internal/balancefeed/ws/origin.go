package ws

import (
	"net/http"
	"strings"
)

// AllowOrigins monta a política de origem do upgrade WebSocket.
// Em ambiente local aceita qualquer origem; fora dele só as origens da
// lista (separadas por vírgula). Requisição sem header Origin passa:
// cliente não-browser não declara origem e o gateway é quem o barra.
func AllowOrigins(env, list string) func(r *http.Request) bool {
	allowed := make(map[string]bool)
	for _, o := range strings.Split(list, ",") {
		if o = strings.ToLower(strings.TrimSpace(o)); o != "" {
			allowed[o] = true
		}
	}
	return func(r *http.Request) bool {
		if env == "local" {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return allowed[strings.ToLower(origin)]
	}
}
