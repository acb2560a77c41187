package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/redactset/pkg/keys"
	"github.com/luxfi/redactset/pkg/rss"
)

var signCmd = &cobra.Command{
	Use:   "sign {small|large} <sign-key-file> <set-file> <policy> | sign derler <sign-key-file> <set-file>",
	Short: "Produce a redactable set signature over a member set",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runSign,
}

var signPassphrase string

func init() {
	signCmd.Flags().StringVar(&signPassphrase, "passphrase", "",
		"passphrase to unseal the signing key file, if it was sealed at keygen time")
}

func runSign(cmd *cobra.Command, args []string) error {
	scheme, keyPath, setPath := args[0], args[1], args[2]

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
	if keys.IsEncryptedEnvelope(derBytes) {
		if signPassphrase == "" {
			return fmt.Errorf("signing key file %s is passphrase-sealed: pass --passphrase", keyPath)
		}
		derBytes, err = keys.DecryptSigningKeyDER(derBytes, signPassphrase)
		if err != nil {
			return err
		}
	}

	var sigDER []byte
	switch scheme {
	case "derler":
		sk, err := keys.UnmarshalDerlerSigningKey(derBytes)
		if err != nil {
			return err
		}
		sig, err := rss.DerlerSign(sk, set)
		if err != nil {
			return err
		}
		sigDER, err = rss.MarshalDerlerSignature(sig)
		if err != nil {
			return err
		}

	case "large":
		if len(args) < 4 {
			return fmt.Errorf("sign large requires a policy argument")
		}
		policyStr := readOrLiteral(args[3])
		sk, err := keys.UnmarshalLargeSigningKey(derBytes)
		if err != nil {
			return err
		}
		sig, err := rss.LargeSign(sk, set, policyStr)
		if err != nil {
			return err
		}
		sigDER, err = rss.MarshalLargeSignature(sig)
		if err != nil {
			return err
		}

	case "small":
		if len(args) < 4 {
			return fmt.Errorf("sign small requires a policy argument")
		}
		if universePath == "" {
			return fmt.Errorf("signing key file %s does not name a universe file", keyPath)
		}
		universe, err := readMembers(universePath)
		if err != nil {
			return err
		}
		policyStr := readOrLiteral(args[3])
		sk, err := keys.UnmarshalSmallSigningKey(derBytes)
		if err != nil {
			return err
		}
		sk.Universe = universe
		sig, err := rss.SmallSign(sk, set, policyStr)
		if err != nil {
			return err
		}
		sigDER, err = rss.MarshalSmallSignature(sig)
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown scheme %q: expected small, large, or derler", scheme)
	}

	return emit(encodeB64(sigDER))
}
