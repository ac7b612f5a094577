// Package gateway resolves the target host once at process startup.
//
// The resolved host is combined with a fixed port into an immutable base URL
// that is passed down as configuration; nothing re-resolves it during a run.
//
// Resolution order:
//  1. an explicitly configured host (flag or config file)
//  2. the KVLOAD_GATEWAY environment variable
//  3. a DNS lookup of the gateway service name ("gateway")
//  4. localhost
package gateway

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

const (
	// DefaultPort はKVストアのRESTエンドポイントの既定ポート
	DefaultPort = 11000

	// EnvHost はホストを上書きする環境変数名
	EnvHost = "KVLOAD_GATEWAY"

	// serviceName はDNSで引くゲートウェイのサービス名
	serviceName = "gateway"
)

// Resolve は対象ホストを解決する
// explicit が空でない場合はそれを最優先で用いる
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if h := os.Getenv(EnvHost); h != "" {
		return h
	}
	if addrs, err := net.LookupHost(serviceName); err == nil && len(addrs) > 0 {
		return addrs[0]
	}
	return "localhost"
}

// BaseURL はホストとポートからベースURLを組み立てる
// port が0以下の場合はDefaultPortを使用
func BaseURL(host string, port int) string {
	if port <= 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))
}
