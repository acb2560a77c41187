package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/redactset/pkg/keys"
	"github.com/luxfi/redactset/pkg/rss"
)

var redactCmd = &cobra.Command{
	Use: "redact {small|large} <ver-key-file> <set-file> <subset-file> <policy> <sig-file> | " +
		"redact derler <ver-key-file> <set-file> <subset-file> <sig-file>",
	Short: "Redact a signature to a smaller member set",
	Args:  cobra.MinimumNArgs(4),
	RunE:  runRedact,
}

func runRedact(cmd *cobra.Command, args []string) error {
	scheme, keyPath, setPath, subsetPath := args[0], args[1], args[2], args[3]

	set, err := readMembers(setPath)
	if err != nil {
		return err
	}
	subset, err := readMembers(subsetPath)
	if err != nil {
		return err
	}
	if !stringsSubset(set, subset) {
		// spec.md §8 "Non-subset redaction": S' ⊄ S is a null/invalid redaction.
		fmt.Println("Redacted set is not valid.")
		os.Exit(1)
	}

	keyContent, err := readKeyFile(keyPath)
	if err != nil {
		return err
	}
	_, universePath, err := keys.DecodeKeyFile(keyContent)
	if err != nil {
		return err
	}

	// The <policy> argument of the small and large forms is accepted but not
	// read: large redaction keeps the policy the signature was made under,
	// and small redaction replaces it with the subset's own characteristic
	// string.
	var sigPath string
	var sigDER []byte

	switch scheme {
	case "derler":
		if len(args) < 5 {
			return fmt.Errorf("redact derler requires a signature file argument")
		}
		sigPath = args[4]
		sig, err := loadDerlerSignature(sigPath)
		if err != nil {
			return err
		}
		redacted, err := rss.DerlerRedact(sig, subset)
		if err != nil {
			return reportIfInvalidRedaction(err)
		}
		sigDER, err = rss.MarshalDerlerSignature(redacted)
		if err != nil {
			return err
		}

	case "large":
		if len(args) < 6 {
			return fmt.Errorf("redact large requires policy and signature file arguments")
		}
		sigPath = args[5]
		sig, err := loadLargeSignature(sigPath)
		if err != nil {
			return err
		}
		redacted, err := rss.LargeRedact(sig, subset)
		if err != nil {
			return reportIfInvalidRedaction(err)
		}
		sigDER, err = rss.MarshalLargeSignature(redacted)
		if err != nil {
			return err
		}

	case "small":
		if len(args) < 6 {
			return fmt.Errorf("redact small requires policy and signature file arguments")
		}
		if universePath == "" {
			return fmt.Errorf("verification key file %s does not name a universe file", keyPath)
		}
		universe, err := readMembers(universePath)
		if err != nil {
			return err
		}
		sigPath = args[5]
		sig, err := loadSmallSignature(sigPath)
		if err != nil {
			return err
		}
		redacted, err := rss.SmallRedact(sig, universe, subset)
		if err != nil {
			return reportIfInvalidRedaction(err)
		}
		sigDER, err = rss.MarshalSmallSignature(redacted)
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown scheme %q: expected small, large, or derler", scheme)
	}

	return emit(encodeB64(sigDER))
}

func loadDerlerSignature(path string) (*rss.DerlerSignature, error) {
	content, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	data, err := decodeB64(content)
	if err != nil {
		return nil, err
	}
	return rss.UnmarshalDerlerSignature(data)
}

func loadLargeSignature(path string) (*rss.LargeSignature, error) {
	content, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	data, err := decodeB64(content)
	if err != nil {
		return nil, err
	}
	return rss.UnmarshalLargeSignature(data)
}

func loadSmallSignature(path string) (*rss.SmallSignature, error) {
	content, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	data, err := decodeB64(content)
	if err != nil {
		return nil, err
	}
	return rss.UnmarshalSmallSignature(data)
}

// reportIfInvalidRedaction prints the spec-mandated failure text and exits
// the process when err signals a null/invalid redaction (spec.md §6, §8);
// any other error is returned unchanged for ordinary CLI error reporting.
func reportIfInvalidRedaction(err error) error {
	var rerr *rss.Error
	if errors.As(err, &rerr) && rerr.Kind == rss.PolicyUnsatisfied {
		fmt.Println("Redacted set is not valid.")
		os.Exit(1)
	}
	return err
}

func stringsSubset(full, subset []string) bool {
	present := make(map[string]bool, len(full))
	for _, m := range full {
		present[m] = true
	}
	for _, m := range subset {
		if !present[m] {
			return false
		}
	}
	return true
}
