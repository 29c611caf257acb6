package handlers

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// clientIP returns the requester's network address, the anonymous voter
// identity. chi's RealIP middleware has already resolved proxy headers into
// RemoteAddr; this only strips the port when one is present.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if ip == "" {
		return "unknown"
	}
	return ip
}
