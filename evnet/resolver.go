package evnet

import (
	"net"

	"github.com/evrtlab/evrt"
)

// Resolve offloads a blocking net.LookupHost to the loop's executor
// pool instead of blocking the loop goroutine on DNS.
func Resolve(loop *evrt.EventThread, host string) (f *evrt.Future) {
	return loop.RunInExecutor(func() (any, error) {
		return net.LookupHost(host)
	})
}

// ResolveAddr offloads a blocking net.ResolveTCPAddr.
func ResolveAddr(loop *evrt.EventThread, network, address string) (f *evrt.Future) {
	return loop.RunInExecutor(func() (any, error) {
		return net.ResolveTCPAddr(network, address)
	})
}
