// Command shadow_compare replays a list of read-only endpoints against the Go
// API and the legacy Node backend and reports status and body differences.
// Intended for cutover checks while both backends run side by side.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type endpoint struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type endpointsFile struct {
	Endpoints []endpoint `json:"endpoints"`
}

type result struct {
	Endpoint     endpoint
	GoStatus     int
	LegacyStatus int
	StatusMatch  bool
	BodyMatch    bool
	GoDuration   time.Duration
	Err          error
}

func main() {
	var (
		goBase     string
		legacyBase string
		listPath   string
		token      string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000", "Legacy Node API base URL")
	flag.StringVar(&listPath, "endpoints", filepath.Join("scripts", "shadow_compare", "endpoints.json"), "Path to the endpoints JSON file")
	flag.StringVar(&token, "token", "", "Bearer token forwarded to both backends")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	endpoints, err := loadEndpoints(listPath)
	if err != nil {
		log.Fatalf("failed to load endpoints: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	breaking := 0
	results := make([]result, 0, len(endpoints))
	for _, ep := range endpoints {
		res := compare(client, goBase, legacyBase, token, ep)
		if ep.Critical && (res.Err != nil || !res.StatusMatch || !res.BodyMatch) {
			breaking++
		}
		results = append(results, res)
	}

	report(results)
	if breaking > 0 {
		fmt.Printf("%d critical endpoint(s) diverge\n", breaking)
		os.Exit(1)
	}
}

func loadEndpoints(path string) ([]endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file endpointsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints defined in %s", path)
	}
	return file.Endpoints, nil
}

func compare(client *http.Client, goBase, legacyBase, token string, ep endpoint) result {
	res := result{Endpoint: ep}

	goStatus, goBody, goDur, err := fetch(client, goBase, token, ep)
	if err != nil {
		res.Err = fmt.Errorf("go request: %w", err)
		return res
	}
	res.GoStatus = goStatus
	res.GoDuration = goDur

	legacyStatus, legacyBody, _, err := fetch(client, legacyBase, token, ep)
	if err != nil {
		res.Err = fmt.Errorf("legacy request: %w", err)
		return res
	}
	res.LegacyStatus = legacyStatus

	res.StatusMatch = goStatus == legacyStatus
	res.BodyMatch = jsonEquivalent(goBody, legacyBody)
	return res
}

func fetch(client *http.Client, base, token string, ep endpoint) (int, []byte, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(ep.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := ep.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// jsonEquivalent compares bodies structurally so key order and numeric
// formatting differences between the two stacks do not count as diffs.
func jsonEquivalent(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var av, bv interface{}
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	canonicalize(&av)
	canonicalize(&bv)
	return reflect.DeepEqual(av, bv)
}

func canonicalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, inner := range val {
			canonicalize(&inner)
			val[k] = inner
		}
	case []interface{}:
		for i, inner := range val {
			canonicalize(&inner)
			val[i] = inner
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(results []result) {
	fmt.Println("Shadow compare")
	fmt.Println("==============")
	for _, res := range results {
		verdict := "OK"
		switch {
		case res.Err != nil:
			verdict = "ERROR"
		case !res.StatusMatch || !res.BodyMatch:
			verdict = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", verdict, res.Endpoint.Method, res.Endpoint.Path)
		if res.Err != nil {
			fmt.Printf("  %v\n", res.Err)
			continue
		}
		fmt.Printf("  go=%d legacy=%d (%s) status=%t body=%t critical=%t\n",
			res.GoStatus, res.LegacyStatus, res.GoDuration, res.StatusMatch, res.BodyMatch, res.Endpoint.Critical)
	}
}
