package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/redactset/pkg/keys"
	"github.com/luxfi/redactset/pkg/rss"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen {small <universe-file>|large|derler}",
	Short: "Generate a signing/verification keypair",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKeygen,
}

var keygenPassphrase string

func init() {
	keygenCmd.Flags().StringVar(&keygenPassphrase, "passphrase", "",
		"if set, seal the signing key file at rest under this passphrase")
}

// sealSigningKey wraps skDER in a passphrase envelope when keygenPassphrase
// is set, otherwise returns it unchanged. The verification key is always
// written in the clear: it carries no secret trapdoor.
func sealSigningKey(skDER []byte) ([]byte, error) {
	if keygenPassphrase == "" {
		return skDER, nil
	}
	return keys.EncryptSigningKeyDER(skDER, keygenPassphrase)
}

// keyFilePaths derives the two output file names for a keygen run: the
// --output flag (or "redactset" by default) is used as a filename prefix.
func keyFilePaths() (signPath, verifyPath string) {
	prefix := outputFile
	if prefix == "" {
		prefix = "redactset"
	}
	return prefix + ".sign", prefix + ".verify"
}

func runKeygen(cmd *cobra.Command, args []string) error {
	scheme := args[0]
	signPath, verifyPath := keyFilePaths()

	switch scheme {
	case "derler":
		sk, vk, err := rss.DerlerKeyGen()
		if err != nil {
			return err
		}
		skDER, err := keys.MarshalDerlerSigningKey(sk)
		if err != nil {
			return err
		}
		vkDER, err := keys.MarshalDerlerVerificationKey(vk)
		if err != nil {
			return err
		}
		skDER, err = sealSigningKey(skDER)
		if err != nil {
			return err
		}
		if err := writeKeyFile(signPath, keys.EncodeKeyFile(skDER, "")); err != nil {
			return err
		}
		if err := writeKeyFile(verifyPath, keys.EncodeKeyFile(vkDER, "")); err != nil {
			return err
		}

	case "large":
		sk, vk, err := rss.LargeKeyGen()
		if err != nil {
			return err
		}
		skDER, err := keys.MarshalLargeSigningKey(sk)
		if err != nil {
			return err
		}
		vkDER, err := keys.MarshalLargeVerificationKey(vk)
		if err != nil {
			return err
		}
		skDER, err = sealSigningKey(skDER)
		if err != nil {
			return err
		}
		if err := writeKeyFile(signPath, keys.EncodeKeyFile(skDER, "")); err != nil {
			return err
		}
		if err := writeKeyFile(verifyPath, keys.EncodeKeyFile(vkDER, "")); err != nil {
			return err
		}

	case "small":
		if len(args) < 2 {
			return fmt.Errorf("keygen small requires a universe file argument")
		}
		universe, err := readMembers(args[1])
		if err != nil {
			return err
		}
		sk, vk, err := rss.SmallKeyGen(universe)
		if err != nil {
			return err
		}
		skDER, err := keys.MarshalSmallSigningKey(sk)
		if err != nil {
			return err
		}
		vkDER, err := keys.MarshalSmallVerificationKey(vk)
		if err != nil {
			return err
		}
		skDER, err = sealSigningKey(skDER)
		if err != nil {
			return err
		}
		if err := writeKeyFile(signPath, keys.EncodeKeyFile(skDER, args[1])); err != nil {
			return err
		}
		if err := writeKeyFile(verifyPath, keys.EncodeKeyFile(vkDER, args[1])); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown scheme %q: expected small, large, or derler", scheme)
	}

	fmt.Printf("wrote %s and %s\n", signPath, verifyPath)
	return nil
}
