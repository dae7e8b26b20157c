package main

import (
	"net/http"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 256

// qrHandler serves a PNG QR code of the arena URL so players can join from a phone.
// Without a configured public URL the request's own host is used.
func qrHandler(publicURL string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := publicURL
		if target == "" {
			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}
			target = scheme + "://" + r.Host + "/"
		}
		png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
		if err != nil {
			log.Error("qr encode", zap.String("url", target), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	}
}
