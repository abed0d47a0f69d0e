// Command hash-password produces an Argon2id hash for the admin
// password, in the PHC string format expected by ADMIN_PASSWORD_HASH.
//
// Usage:
//
//	go run scripts/hash-password.go -password 's3cret'
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/womencount/womencount/internal/auth"
)

type output struct {
	Hash string `json:"hash"`
}

func main() {
	var (
		password = flag.String("password", "", "Password to hash")
		format   = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		if err := json.NewEncoder(os.Stdout).Encode(output{Hash: hash}); err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
	default:
		fmt.Println(hash)
	}
}
