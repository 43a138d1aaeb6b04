package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"mainet/internal/logger"

	"github.com/gorilla/websocket"
)

// ws_smoke drives a running server: it logs in, opens the push channel,
// clicks once and waits for the state update to arrive over the socket.
func main() {
	base := flag.String("addr", "127.0.0.1:8080", "server host:port")
	email := flag.String("email", "smoke@mainet.io", "account email")
	password := flag.String("password", "smoke-pass", "account password")
	flag.Parse()

	logger.Init("info", false)
	api := "http://" + *base + "/api/v1"

	var auth struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	creds := map[string]string{"email": *email, "password": *password}
	if code := post(api+"/auth/register", "", creds, &auth); code != http.StatusCreated {
		if code := post(api+"/auth/login", "", creds, &auth); code != http.StatusOK {
			logger.Fatal("login failed", "status", code)
		}
	}

	wsURL := fmt.Sprintf("ws://%s/ws/%s?token=%s", *base, auth.User.ID, auth.AccessToken)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	defer conn.Close()

	read := func() map[string]any {
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Fatal("read", "error", err)
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		return obj
	}

	logger.Info("connected", "hello", read()["type"])

	var click map[string]any
	if code := post(api+"/game/click", auth.AccessToken, map[string]int{"clicks": 1}, &click); code != http.StatusOK {
		logger.Fatal("click failed", "status", code, "body", click)
	}

	ev := read()
	logger.Info("event received", "type", ev["type"])
	logger.Info("smoke test finished")
}

func post(url, token string, body, out any) int {
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("request", "url", url, "error", err)
	}
	defer resp.Body.Close()
	_ = json.NewDecoder(resp.Body).Decode(out)
	return resp.StatusCode
}
