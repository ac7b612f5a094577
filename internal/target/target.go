package target

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"kvload/internal/stats"
)

// Path はKVストアのRESTエンドポイントのベースパス
// 読み取りのメトリクス名はキーを含まないこの値に正規化される
const Path = "/key"

// defaultTimeout を超えたリクエストは失敗サンプルとして記録される
const defaultTimeout = 10 * time.Second

// Client はKVストアのREST APIに対するHTTPクライアント
type Client struct {
	baseURL string
	http    *http.Client
}

// New は新しいClientを作成する
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: defaultTimeout})
}

// NewWithHTTPClient はHTTPクライアントを指定してClientを作成する
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// BaseURL は設定されたベースURLを返す
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Put は {key: value} のJSONボディを POST /key に送信する
// レスポンスは検証せず、結果をサンプルとして返すのみ
func (c *Client) Put(ctx context.Context, key, value string) stats.Sample {
	body, err := json.Marshal(map[string]string{key: value})
	if err != nil {
		return stats.Sample{Name: Path, Method: http.MethodPost, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Path, bytes.NewReader(body))
	if err != nil {
		return stats.Sample{Name: Path, Method: http.MethodPost, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, Path)
}

// Get は GET /key/<key> を送信する
// サンプルのメトリクス名はキーによらずPathに正規化される
func (c *Client) Get(ctx context.Context, key string) stats.Sample {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+Path+"/"+key, nil)
	if err != nil {
		return stats.Sample{Name: Path, Method: http.MethodGet, Err: err}
	}

	return c.do(req, Path)
}

// do はリクエストを実行し、計測結果をサンプルとして返す
func (c *Client) do(req *http.Request, name string) stats.Sample {
	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)

	if err != nil {
		return stats.Sample{Name: name, Method: req.Method, Latency: latency, Err: err}
	}

	// ボディは読み捨てる（コネクション再利用のため）
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return stats.Sample{
		Name:    name,
		Method:  req.Method,
		Status:  resp.StatusCode,
		Latency: latency,
	}
}
