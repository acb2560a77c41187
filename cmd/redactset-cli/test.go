package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/redactset/pkg/rss"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run built-in round-trip scenarios across all three schemes",
	RunE:  runTest,
}

type scenario struct {
	name string
	run  func() error
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Println("Running redactset self-test suite...")

	scenarios := []scenario{
		{"derler: sign, redact, verify", testDerlerRoundTrip},
		{"large: AND policy over full set", testLargeFullSet},
		{"large: redact to satisfying OR branch", testLargeRedactOr},
		{"small: fixed-universe characteristic-list policy", testSmallFullSet},
		{"small: redact to satisfying subset", testSmallRedact},
	}

	failures := 0
	for _, sc := range scenarios {
		if err := sc.run(); err != nil {
			fmt.Printf("  FAIL  %s: %v\n", sc.name, err)
			failures++
			continue
		}
		fmt.Printf("  PASS  %s\n", sc.name)
	}

	if failures > 0 {
		fmt.Printf("%d scenario(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("all scenarios passed")
	return nil
}

func testDerlerRoundTrip() error {
	sk, vk, err := rss.DerlerKeyGen()
	if err != nil {
		return err
	}
	set := []string{"alice", "bob", "carol"}
	sig, err := rss.DerlerSign(sk, set)
	if err != nil {
		return err
	}
	redacted, err := rss.DerlerRedact(sig, []string{"alice", "carol"})
	if err != nil {
		return err
	}
	ok, err := rss.DerlerVerify(vk, []string{"alice", "carol"}, redacted)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected verification to succeed")
	}
	return nil
}

func testLargeFullSet() error {
	sk, vk, err := rss.LargeKeyGen()
	if err != nil {
		return err
	}
	set := []string{"alice", "bob"}
	sig, err := rss.LargeSign(sk, set, "alice AND bob")
	if err != nil {
		return err
	}
	ok, err := rss.LargeVerify(vk, set, sig)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected verification to succeed")
	}
	return nil
}

func testLargeRedactOr() error {
	sk, vk, err := rss.LargeKeyGen()
	if err != nil {
		return err
	}
	set := []string{"alice", "bob", "carol"}
	sig, err := rss.LargeSign(sk, set, "alice AND (bob OR carol)")
	if err != nil {
		return err
	}
	redacted, err := rss.LargeRedact(sig, []string{"alice", "carol"})
	if err != nil {
		return err
	}
	ok, err := rss.LargeVerify(vk, []string{"alice", "carol"}, redacted)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected verification to succeed")
	}
	return nil
}

func testSmallFullSet() error {
	universe := []string{"alice", "bob", "carol"}
	sk, vk, err := rss.SmallKeyGen(universe)
	if err != nil {
		return err
	}
	// universe's own characteristic vector is all ones.
	sig, err := rss.SmallSign(sk, universe, "111")
	if err != nil {
		return err
	}
	ok, err := rss.SmallVerify(vk, universe, sig)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected verification to succeed")
	}
	return nil
}

func testSmallRedact() error {
	universe := []string{"alice", "bob", "carol", "dave"}
	sk, vk, err := rss.SmallKeyGen(universe)
	if err != nil {
		return err
	}
	// {alice,bob,carol} = 1110; target {alice,bob} = 1100.
	sig, err := rss.SmallSign(sk, []string{"alice", "bob", "carol"}, "1110,1100")
	if err != nil {
		return err
	}
	redacted, err := rss.SmallRedact(sig, universe, []string{"alice", "bob"})
	if err != nil {
		return err
	}
	ok, err := rss.SmallVerify(vk, []string{"alice", "bob"}, redacted)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected verification to succeed")
	}
	return nil
}
