package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/redactset/pkg/keys"
	"github.com/luxfi/redactset/pkg/rss"
)

var verifyCmd = &cobra.Command{
	Use:   "verify {small|large|derler} <ver-key-file> <set-file> <sig-file>",
	Short: "Verify a redactable set signature against a member set",
	Args:  cobra.ExactArgs(4),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	scheme, keyPath, setPath, sigPath := args[0], args[1], args[2], args[3]

	set, err := readMembers(setPath)
	if err != nil {
		return err
	}
	keyContent, err := readKeyFile(keyPath)
	if err != nil {
		return err
	}
	derBytes, universePath, err := keys.DecodeKeyFile(keyContent)
	if err != nil {
		return err
	}

	var ok bool
	switch scheme {
	case "derler":
		vk, err := keys.UnmarshalDerlerVerificationKey(derBytes)
		if err != nil {
			return err
		}
		sig, err := loadDerlerSignature(sigPath)
		if err != nil {
			return err
		}
		ok, err = rss.DerlerVerify(vk, set, sig)
		if err != nil {
			return err
		}

	case "large":
		vk, err := keys.UnmarshalLargeVerificationKey(derBytes)
		if err != nil {
			return err
		}
		sig, err := loadLargeSignature(sigPath)
		if err != nil {
			return err
		}
		ok, err = rss.LargeVerify(vk, set, sig)
		if err != nil {
			return err
		}

	case "small":
		if universePath == "" {
			return fmt.Errorf("verification key file %s does not name a universe file", keyPath)
		}
		universe, err := readMembers(universePath)
		if err != nil {
			return err
		}
		vk, err := keys.UnmarshalSmallVerificationKey(derBytes)
		if err != nil {
			return err
		}
		vk.Universe = universe
		sig, err := loadSmallSignature(sigPath)
		if err != nil {
			return err
		}
		ok, err = rss.SmallVerify(vk, set, sig)
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown scheme %q: expected small, large, or derler", scheme)
	}

	if !ok {
		fmt.Println("Reject.")
		os.Exit(1)
	}
	fmt.Println("Accept.")
	return nil
}
