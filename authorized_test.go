package weakrsa

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"math/big"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/ssh"

	"github.com/bastionzero/weakrsa/math"
)

var _ = Describe("Authorized keys", func() {
	var devices []*DeviceRecord

	BeforeEach(func() {
		var err error
		devices, err = SimulateFleet(math.NewSeededReader([]byte("authorized")), DefaultFleetConfig())
		Expect(err).To(BeNil())
	})

	authorizedKeys := func() *bytes.Buffer {
		buf := new(bytes.Buffer)
		buf.WriteString("# harvested from the fleet\n\n")
		for _, dr := range devices {
			line, err := dr.PublicKey().MarshalAuthorizedKey(dr.ID)
			Expect(err).To(BeNil())
			buf.Write(line)
		}
		return buf
	}

	It("Parses the moduli back with their comments as IDs", func() {
		moduli, err := ParseAuthorizedKeys(authorizedKeys())
		Expect(err).To(BeNil())
		Expect(moduli).To(HaveLen(len(devices)))
		for i, m := range moduli {
			Expect(m.ID).To(Equal(devices[i].ID))
			Expect(m.N.Cmp(devices[i].Key.N)).To(Equal(0))
		}
	})

	It("Finds the same vulnerabilities as the simulated fleet", func() {
		moduli, err := ParseAuthorizedKeys(authorizedKeys())
		Expect(err).To(BeNil())

		fromSSH := ScanSharedFactors(moduli)
		fromFleet := ScanSharedFactors(Moduli(devices))
		Expect(fromSSH).To(HaveLen(len(fromFleet)))
		for i := range fromFleet {
			Expect(fromSSH[i].DeviceA).To(Equal(fromFleet[i].DeviceA))
			Expect(fromSSH[i].SharedPrime.Cmp(fromFleet[i].SharedPrime)).To(Equal(0))
		}
	})

	It("Labels uncommented keys by line and skips non-RSA keys", func() {
		buf := new(bytes.Buffer)

		edPub, _, err := ed25519.GenerateKey(nil)
		Expect(err).To(BeNil())
		edKey, err := ssh.NewPublicKey(edPub)
		Expect(err).To(BeNil())
		buf.Write(ssh.MarshalAuthorizedKey(edKey))

		line, err := devices[0].PublicKey().MarshalAuthorizedKey("")
		Expect(err).To(BeNil())
		buf.Write(line)

		moduli, err := ParseAuthorizedKeys(buf)
		Expect(err).To(BeNil())
		Expect(moduli).To(HaveLen(1))
		Expect(moduli[0].ID).To(Equal("line-2"))
	})

	It("Reports malformed lines", func() {
		_, err := ParseAuthorizedKeys(strings.NewReader("ssh-rsa not-base64 host\n"))
		Expect(err).NotTo(BeNil())
		Expect(err.Error()).To(ContainSubstring("line 1"))
	})

	It("Refuses exponents OpenSSH cannot represent", func() {
		pub := &PublicKey{N: big.NewInt(3233), E: new(big.Int).Lsh(bigOne, 30)}
		_, err := pub.MarshalAuthorizedKey("big-e")
		Expect(errors.Is(err, ErrInvalidInput)).To(BeTrue())
	})
})
