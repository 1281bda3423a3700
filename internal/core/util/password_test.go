package util

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestGenerateEncryptAndCompare(t *testing.T) {
	RegisterTestingT(t)

	encrypted, err := GenerateEncrypt("supersecret")

	Expect(err).To(BeNil())
	Expect(encrypted).NotTo(Equal("supersecret"))

	Expect(ComparePassword("supersecret", encrypted)).To(Succeed())
	Expect(ComparePassword("wrong", encrypted)).NotTo(Succeed())
}
