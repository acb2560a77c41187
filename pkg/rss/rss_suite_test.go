package rss_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/redactset/pkg/rss"
)

func TestRSS(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Redactable Set Signature Suite")
}

var _ = Describe("Universal correctness", func() {
	It("verifies an unredacted derler signature over its own full set", func() {
		sk, vk, err := rss.DerlerKeyGen()
		Expect(err).NotTo(HaveOccurred())
		set := []string{"a", "b", "c", "d"}
		sig, err := rss.DerlerSign(sk, set)
		Expect(err).NotTo(HaveOccurred())
		ok, err := rss.DerlerVerify(vk, set, sig)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("verifies an unredacted large-universe signature over its own full set", func() {
		sk, vk, err := rss.LargeKeyGen()
		Expect(err).NotTo(HaveOccurred())
		set := []string{"a", "b", "c"}
		sig, err := rss.LargeSign(sk, set, "a AND (b OR c)")
		Expect(err).NotTo(HaveOccurred())
		ok, err := rss.LargeVerify(vk, set, sig)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("verifies an unredacted small-universe signature over its own full set", func() {
		universe := []string{"a", "b", "c", "d"}
		sk, vk, err := rss.SmallKeyGen(universe)
		Expect(err).NotTo(HaveOccurred())
		set := []string{"a", "b", "c"} // characteristic 1110
		sig, err := rss.SmallSign(sk, set, "1110")
		Expect(err).NotTo(HaveOccurred())
		ok, err := rss.SmallVerify(vk, set, sig)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})
})

var _ = Describe("Redaction correctness", func() {
	It("keeps a derler signature valid after dropping members", func() {
		sk, vk, err := rss.DerlerKeyGen()
		Expect(err).NotTo(HaveOccurred())
		sig, err := rss.DerlerSign(sk, []string{"a", "b", "c", "d", "e"})
		Expect(err).NotTo(HaveOccurred())

		redacted, err := rss.DerlerRedact(sig, []string{"a", "c", "e"})
		Expect(err).NotTo(HaveOccurred())
		ok, err := rss.DerlerVerify(vk, []string{"a", "c", "e"}, redacted)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("keeps a large-universe signature valid after redacting to a satisfying OR branch", func() {
		sk, vk, err := rss.LargeKeyGen()
		Expect(err).NotTo(HaveOccurred())
		sig, err := rss.LargeSign(sk, []string{"a", "b", "c"}, "a AND (b OR c)")
		Expect(err).NotTo(HaveOccurred())

		redacted, err := rss.LargeRedact(sig, []string{"a", "c"})
		Expect(err).NotTo(HaveOccurred())
		ok, err := rss.LargeVerify(vk, []string{"a", "c"}, redacted)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("keeps a small-universe signature valid after redacting to a satisfying subset", func() {
		universe := []string{"a", "b", "c", "d"}
		sk, vk, err := rss.SmallKeyGen(universe)
		Expect(err).NotTo(HaveOccurred())
		// signed set {a,b,c} = 1110; target {a,b} = 1100.
		sig, err := rss.SmallSign(sk, []string{"a", "b", "c"}, "1110,1100")
		Expect(err).NotTo(HaveOccurred())

		redacted, err := rss.SmallRedact(sig, universe, []string{"a", "b"})
		Expect(err).NotTo(HaveOccurred())
		ok, err := rss.SmallVerify(vk, []string{"a", "b"}, redacted)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})
})

var _ = Describe("Redaction soundness against non-subset presentation", func() {
	It("rejects a large-universe verification presenting members the redaction dropped", func() {
		sk, vk, err := rss.LargeKeyGen()
		Expect(err).NotTo(HaveOccurred())
		sig, err := rss.LargeSign(sk, []string{"a", "b", "c"}, "a AND b")
		Expect(err).NotTo(HaveOccurred())

		redacted, err := rss.LargeRedact(sig, []string{"a", "b"})
		Expect(err).NotTo(HaveOccurred())

		ok, err := rss.LargeVerify(vk, []string{"a", "b", "c"}, redacted)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("rejects a derler redaction request naming a member outside the signed set", func() {
		sk, _, err := rss.DerlerKeyGen()
		Expect(err).NotTo(HaveOccurred())
		sig, err := rss.DerlerSign(sk, []string{"a", "b"})
		Expect(err).NotTo(HaveOccurred())

		_, err = rss.DerlerRedact(sig, []string{"z"})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a small-universe redaction to a subset that does not satisfy the policy", func() {
		universe := []string{"a", "b", "c"}
		sk, _, err := rss.SmallKeyGen(universe)
		Expect(err).NotTo(HaveOccurred())
		sig, err := rss.SmallSign(sk, universe, "111")
		Expect(err).NotTo(HaveOccurred())

		_, err = rss.SmallRedact(sig, universe, []string{"a"})
		Expect(err).To(HaveOccurred())
		var rerr *rss.Error
		Expect(errors.As(err, &rerr)).To(BeTrue())
		Expect(rerr.Kind).To(Equal(rss.PolicyUnsatisfied))
	})
})

var _ = DescribeTable("end-to-end scenarios",
	func(scheme string, universe, signedSet, targetSet []string, policyStr string, wantSatisfied bool) {
		switch scheme {
		case "large":
			sk, vk, err := rss.LargeKeyGen()
			Expect(err).NotTo(HaveOccurred())
			sig, err := rss.LargeSign(sk, signedSet, policyStr)
			Expect(err).NotTo(HaveOccurred())

			redacted, err := rss.LargeRedact(sig, targetSet)
			if !wantSatisfied {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			ok, err := rss.LargeVerify(vk, targetSet, redacted)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		case "small":
			sk, vk, err := rss.SmallKeyGen(universe)
			Expect(err).NotTo(HaveOccurred())
			sig, err := rss.SmallSign(sk, signedSet, policyStr)
			Expect(err).NotTo(HaveOccurred())

			redacted, err := rss.SmallRedact(sig, universe, targetSet)
			if !wantSatisfied {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			ok, err := rss.SmallVerify(vk, targetSet, redacted)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		}
	},
	Entry("large: simple AND satisfied exactly",
		"large", []string(nil), []string{"a", "b"}, []string{"a", "b"}, "a AND b", true),
	Entry("large: OR satisfied by left branch only",
		"large", []string(nil), []string{"a", "b", "c"}, []string{"a", "b"}, "a AND (b OR c)", true),
	Entry("large: OR satisfied by right branch only",
		"large", []string(nil), []string{"a", "b", "c"}, []string{"a", "c"}, "a AND (b OR c)", true),
	Entry("large: AND fails when only one conjunct kept",
		"large", []string(nil), []string{"a", "b", "c"}, []string{"b"}, "a AND b", false),
	Entry("small: exact universe match required by all-ones characteristic",
		"small", []string{"a", "b", "c"}, []string{"a", "b", "c"}, []string{"a", "b", "c"}, "111", true),
	Entry("small: redaction to a second listed characteristic string",
		"small", []string{"a", "b", "c"}, []string{"a", "b", "c"}, []string{"a", "c"}, "111,101", true),
)
