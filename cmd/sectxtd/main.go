package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"solsec.dev/securitytxt/grpcsvc"
	"solsec.dev/securitytxt/resolver"
	"solsec.dev/securitytxt/solana"
	"solsec.dev/securitytxt/storage"
	"solsec.dev/securitytxt/storage/localfs"
	"solsec.dev/securitytxt/storage/memory"
)

func main() {
	fs := flag.NewFlagSet("sectxtd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7788", "listen address")
	url := fs.String("url", "", "RPC URL or cluster alias for Query (empty disables Query)")
	cacheDir := fs.String("cache-dir", "", "directory for the program dump cache (empty keeps dumps in memory)")

	_ = fs.Parse(os.Args[1:])

	var cache storage.CAS
	if *cacheDir != "" {
		localCache, err := localfs.New(*cacheDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cache = localCache
	} else {
		cache = memory.New()
	}

	res := &resolver.Resolver{Cache: cache}
	if *url != "" {
		res.Fetcher = solana.NewClient(solana.ClusterURL(*url))
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcsvc.RegisterSecurityTxtServer(s, &grpcsvc.Server{Resolver: res})

	fmt.Fprintf(os.Stderr, "sectxtd listening on %s (rpc=%q)\n", lis.Addr().String(), *url)
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
