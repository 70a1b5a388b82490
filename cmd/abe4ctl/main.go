// Command abe4ctl exercises a full Setup -> KeyGen -> Encrypt -> Decrypt
// round trip against a policy and attribute set given on the command line,
// and prints whether decryption succeeded. It exists as a thin smoke-test
// surface over the abe4 package, not as a production key-management tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/accless/abe4"
)

func main() {
	policyFlag := flag.String("policy", "", "policy text, e.g. 'hr.clearance:eng & !hr.clearance:intern'")
	attrsFlag := flag.String("attrs", "", "comma-separated auth.label:attr attributes the user holds")
	gidFlag := flag.String("gid", "alice", "user global identifier")
	msgFlag := flag.String("msg", "hello, accless", "plaintext message to round-trip")
	flag.Parse()

	if *policyFlag == "" {
		log.Fatal("-policy is required")
	}

	policy, err := abe4.ParsePolicy(*policyFlag)
	if err != nil {
		log.Fatalf("parsing policy: %v", err)
	}

	var heldAttrs []abe4.UserAttribute
	if *attrsFlag != "" {
		for _, s := range strings.Split(*attrsFlag, ",") {
			ua, err := abe4.ParseUserAttribute(strings.TrimSpace(s))
			if err != nil {
				log.Fatalf("parsing attribute %q: %v", s, err)
			}
			heldAttrs = append(heldAttrs, ua)
		}
	}

	auths := authoritiesOf(policy, heldAttrs)

	msk, mpk, err := abe4.Setup(auths)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	tau, err := abe4.BuildTau(policy)
	if err != nil {
		log.Fatalf("building tau index: %v", err)
	}
	iot := abe4.BuildIota(heldAttrs)

	usk, err := abe4.KeyGen(*gidFlag, msk, heldAttrs, iot)
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}

	ct, payload, err := abe4.EncryptHybrid([]byte(*msgFlag), []byte(*gidFlag), policy, mpk, tau)
	if err != nil {
		log.Fatalf("encrypt: %v", err)
	}

	plain, err := abe4.DecryptHybrid(ct, payload, []byte(*gidFlag), usk, *gidFlag, iot, tau, policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decrypt failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("decrypted: %s\n", plain)
}

// authoritiesOf collects every distinct authority named in policy's leaves
// or in held, so Setup and KeyGen run over exactly the authorities this
// round trip needs.
func authoritiesOf(policy *abe4.Policy, held []abe4.UserAttribute) []string {
	seen := make(map[string]bool)
	var auths []string
	add := func(auth string) {
		if !seen[auth] {
			seen[auth] = true
			auths = append(auths, auth)
		}
	}

	for _, lit := range policy.Leaves() {
		ua, err := abe4.ParseUserAttribute(lit.Attr)
		if err != nil {
			log.Fatalf("policy leaf %q: %v", lit.Attr, err)
		}
		add(ua.Auth)
	}
	for _, ua := range held {
		add(ua.Auth)
	}
	return auths
}
