// Command converse is a terminal chat client for a running harmonium
// daemon. It talks only through the HTTP API and renders the mind's
// emotion as a small ASCII face.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type turnResult struct {
	Reply     string `json:"reply"`
	Generated bool   `json:"generated"`
	Snapshot  struct {
		Resonance float64 `json:"resonance"`
		Coherence float64 `json:"coherence"`
		Emotion   string  `json:"emotion"`
	} `json:"snapshot"`
}

var faces = map[string]string{
	"joy":           "(^‿^)",
	"harmony":       "(‿‿ )",
	"contemplation": "(•_•)?",
	"concern":       "(•︵•)",
	"vigilance":     "(⊙_⊙)!",
}

func face(emotion string) string {
	if f, ok := faces[emotion]; ok {
		return f
	}
	return faces["harmony"]
}

func main() {
	baseURL := flag.String("url", "http://localhost:8643", "harmonium API base URL")
	flag.Parse()

	client := &http.Client{Timeout: 60 * time.Second}
	chatURL := strings.TrimRight(*baseURL, "/") + "/api/v1/chat"

	fmt.Println("Connected to Harmonium. Empty line or Ctrl+D to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nyou> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			break
		}

		result, err := sendTurn(client, chatURL, message)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		source := "canned"
		if result.Generated {
			source = "generated"
		}
		fmt.Printf("%s harmonium> %s\n", face(result.Snapshot.Emotion), result.Reply)
		fmt.Printf("   [%s | resonance %.0f%% | coherence %.0f%% | %s]\n",
			result.Snapshot.Emotion,
			result.Snapshot.Resonance*100,
			result.Snapshot.Coherence*100,
			source,
		)
	}

	fmt.Println("\nGoodbye.")
}

func sendTurn(client *http.Client, url, message string) (*turnResult, error) {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("reaching daemon: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daemon error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result turnResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	return &result, nil
}
