package response_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	cerr "github.com/coalalib/coalamsg/errors"
	"github.com/coalalib/coalamsg/message"
	. "github.com/coalalib/coalamsg/response"
)

// datagram returns a version 1 header with the given type and code, message
// ID 0x0102 and token, followed by rest.
func datagram(t message.CoapType, code byte, token []byte, rest ...byte) []byte {
	b := []byte{1<<6 | byte(t)<<4 | byte(len(token)), code, 0x01, 0x02}
	b = append(b, token...)
	return append(b, rest...)
}

var _ = Describe("ResponseMessage", func() {
	Describe("Build", func() {
		It("Should keep the given fields", func() {
			token := []byte{0x01, 0x02}
			r, err := New(message.ACK, Content, 1000, token)
			Expect(err).NotTo(HaveOccurred())
			token[0] = 0xff

			Expect(r.Version()).To(Equal(uint8(1)))
			Expect(r.Type()).To(Equal(message.ACK))
			Expect(r.Code()).To(Equal(Content))
			Expect(r.RawCode()).To(Equal(69))
			Expect(r.MessageID()).To(Equal(uint16(1000)))
			Expect(r.Token()).To(Equal([]byte{0x01, 0x02}))
			Expect(r.Options().Count()).To(Equal(0))
		})

		It("Should render the diagnostic string", func() {
			r, err := New(message.ACK, Content, 1000, []byte{0x01, 0x02})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.String()).To(Equal("Acknowledgement, Content_205, MsgId: 1000, #Options: 0"))
			Expect(r.String()).To(ContainSubstring("Content_205"))
			Expect(r.String()).To(ContainSubstring("MsgId: 1000"))
			Expect(r.String()).To(ContainSubstring("#Options: 0"))
		})

		It("Should accept every named code", func() {
			for _, code := range ResponseCodes() {
				r, err := New(message.NON, code, 1, nil)
				Expect(err).NotTo(HaveOccurred())
				v, _ := r.Code().Value()
				Expect(v).To(Equal(int(code)))
				Expect(r.RawCode()).To(Equal(int(code)))
				Expect(r.Token()).To(BeNil())
			}
		})

		It("Should reject Unknown", func() {
			r, err := New(message.ACK, Unknown, 1, nil)
			Expect(err).To(MatchError(cerr.InvalidArgument))
			Expect(r).To(BeNil())
		})

		It("Should reject a token longer than 8 bytes", func() {
			_, err := New(message.ACK, Content, 1, make([]byte, 9))
			Expect(err).To(MatchError(cerr.InvalidArgument))
		})

		It("Should reject an undefined message type", func() {
			_, err := New(message.CoapType(4), Content, 1, nil)
			Expect(err).To(MatchError(cerr.InvalidArgument))
		})

		It("Should be a response", func() {
			r, _ := New(message.CON, Changed, 1, nil)
			Expect(r.IsResponse()).To(BeTrue())
			Expect(r.IsRequest()).To(BeFalse())
			Expect(r.IsEmpty()).To(BeFalse())
		})
	})

	Describe("Decode", func() {
		It("Should classify a Valid response", func() {
			r, err := Unmarshal(datagram(message.ACK, 67, []byte{0xab}))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Code()).To(Equal(Valid))
			Expect(r.MessageID()).To(Equal(uint16(0x0102)))
			Expect(r.Token()).To(Equal([]byte{0xab}))
		})

		It("Should fail on the retired 2.00", func() {
			r, err := Unmarshal(datagram(message.ACK, 64, nil))
			Expect(r).To(BeNil())
			Expect(err).To(MatchError(cerr.MalformedCode))
			Expect(errors.Is(err, cerr.MalformedMessage)).To(BeTrue())
		})

		DescribeTable("Codes outside the response range",
			func(code byte) {
				r, err := Unmarshal(datagram(message.CON, code, nil))
				Expect(r).To(BeNil())
				Expect(errors.Is(err, cerr.MalformedCode)).To(BeTrue())
				Expect(errors.Is(err, cerr.MalformedMessage)).To(BeTrue())
			},
			Entry("empty", byte(0)),
			Entry("GET", byte(1)),
			Entry("reserved", byte(40)),
			Entry("above 5.31", byte(192)),
			Entry("max", byte(255)),
		)

		It("Should accept an unrecognized code in range", func() {
			r, err := Unmarshal(datagram(message.NON, 70, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Code()).To(Equal(Unknown))
			Expect(r.RawCode()).To(Equal(70))
			Expect(r.String()).To(ContainSubstring("Unknown_Response_Code"))

			b, err := r.Marshal()
			Expect(err).NotTo(HaveOccurred())
			Expect(b[1]).To(Equal(byte(70)))
		})

		It("Should report framing errors as malformed", func() {
			_, err := Unmarshal([]byte{0x40, 0x45})
			Expect(errors.Is(err, cerr.MalformedMessage)).To(BeTrue())
			Expect(errors.Is(err, cerr.PacketLengthLessThan4)).To(BeTrue())
			Expect(errors.Is(err, cerr.MalformedCode)).To(BeFalse())
		})

		It("Should reject bounds that do not fit the buffer", func() {
			r, err := Decode(datagram(message.ACK, 69, nil), 1, math.MaxInt64)
			Expect(r).To(BeNil())
			Expect(errors.Is(err, cerr.InvalidBounds)).To(BeTrue())
			Expect(errors.Is(err, cerr.MalformedMessage)).To(BeTrue())
		})

		It("Should reject a payload marker with no payload", func() {
			_, err := Unmarshal(datagram(message.ACK, 69, nil, 0xff))
			Expect(errors.Is(err, cerr.EmptyPayload)).To(BeTrue())
		})

		It("Should decode at an offset", func() {
			inner := datagram(message.ACK, 132, nil)
			buf := append([]byte{0, 0, 0}, inner...)
			r, err := Decode(buf, len(inner), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Code()).To(Equal(NotFound))
		})

		It("Should expose decoded options", func() {
			// Max-Age 120, ETag 0xcafe, payload "ok"
			b := datagram(message.ACK, 69, nil, 0x42, 0xca, 0xfe, 0xa1, 0x78, 0xff, 'o', 'k')
			r, err := Unmarshal(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.MaxAge()).To(Equal(int64(120)))
			Expect(r.ETag()).To(Equal([]byte{0xca, 0xfe}))
			Expect(r.Payload()).To(Equal([]byte("ok")))
			Expect(r.Options().Count()).To(Equal(2))
		})

		It("Should not check option integrity", func() {
			// two Max-Age options
			b := datagram(message.ACK, 69, nil, 0xd1, 0x01, 0x0a, 0x01, 0x14)
			r, err := Unmarshal(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Options().GetAll(message.OptionMaxAge)).To(HaveLen(2))
			Expect(r.MaxAge()).To(Equal(int64(10)))
			Expect(r.Validate()).To(MatchError(cerr.DuplicateOption))
		})
	})

	Describe("Max-Age", func() {
		var r *ResponseMessage

		BeforeEach(func() {
			var err error
			r, err = New(message.ACK, Content, 7, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("Should report the default when absent", func() {
			Expect(r.MaxAge()).To(Equal(int64(MaxAgeDefault)))
			Expect(r.FreshFor()).To(Equal(DefaultMaxAge))
		})

		It("Should read back its own value", func() {
			Expect(r.SetMaxAge(60)).To(Succeed())
			Expect(r.MaxAge()).To(Equal(int64(60)))
			Expect(r.Options().Get(message.OptionMaxAge).Value).To(Equal([]byte{0x3c}))
			Expect(r.Options().Exists(message.OptionURIPort)).To(BeFalse())
		})

		It("Should ignore an unrelated Uri-Port", func() {
			r.Options().Add(message.OptionURIPort, message.EncodeUint(5683))
			Expect(r.MaxAge()).To(Equal(int64(MaxAgeDefault)))
			Expect(r.SetMaxAge(30)).To(Succeed())
			Expect(r.MaxAge()).To(Equal(int64(30)))
		})

		It("Should be set once", func() {
			Expect(r.SetMaxAge(60)).To(Succeed())
			Expect(r.SetMaxAge(120)).To(MatchError(cerr.OptionExists))
			Expect(r.MaxAge()).To(Equal(int64(60)))
			Expect(r.Options().Count()).To(Equal(1))
		})

		DescribeTable("Out of range values",
			func(seconds int64) {
				Expect(r.SetMaxAge(seconds)).To(MatchError(cerr.InvalidArgument))
				Expect(r.Options().Count()).To(Equal(0))
			},
			Entry("negative", int64(-1)),
			Entry("above 32 bits", int64(1)<<32),
		)

		It("Should encode zero as an empty value", func() {
			Expect(r.SetMaxAge(0)).To(Succeed())
			Expect(r.MaxAge()).To(Equal(int64(0)))
			Expect(r.FreshFor()).To(BeZero())
		})

		It("Should survive the wire", func() {
			Expect(r.SetMaxAge(86400)).To(Succeed())
			b, err := r.Marshal()
			Expect(err).NotTo(HaveOccurred())
			back, err := Unmarshal(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.MaxAge()).To(Equal(int64(86400)))
		})
	})

	Describe("ETag", func() {
		var r *ResponseMessage

		BeforeEach(func() {
			var err error
			r, err = New(message.ACK, Content, 7, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("Should be absent by default", func() {
			Expect(r.ETag()).To(BeNil())
			Expect(r.ETags()).To(BeEmpty())
		})

		DescribeTable("Lengths",
			func(tag []byte, ok bool) {
				err := r.SetETag(tag)
				if ok {
					Expect(err).NotTo(HaveOccurred())
					Expect(r.ETag()).To(Equal(tag))
				} else {
					Expect(err).To(MatchError(cerr.InvalidArgument))
					Expect(r.ETag()).To(BeNil())
				}
			},
			Entry("nil", []byte(nil), false),
			Entry("empty", []byte{}, false),
			Entry("one byte", []byte{0x01}, true),
			Entry("eight bytes", []byte{1, 2, 3, 4, 5, 6, 7, 8}, true),
			Entry("nine bytes", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, false),
		)

		It("Should keep a private copy", func() {
			tag := []byte{0x0a, 0x0b}
			Expect(r.SetETag(tag)).To(Succeed())
			tag[0] = 0
			got := r.ETag()
			Expect(got).To(Equal([]byte{0x0a, 0x0b}))
			got[1] = 0
			Expect(r.ETag()).To(Equal([]byte{0x0a, 0x0b}))
		})

		It("Should not reject repeats", func() {
			Expect(r.SetETag([]byte{1})).To(Succeed())
			Expect(r.SetETag([]byte{2})).To(Succeed())
			Expect(r.ETag()).To(Equal([]byte{1}))
			Expect(r.ETags()).To(Equal([][]byte{{1}, {2}}))
			Expect(r.Validate()).To(Succeed())
		})

		It("Should derive stable tags from payloads", func() {
			a := ETagFromPayload([]byte("hello"))
			Expect(a).To(HaveLen(MaxETagLength))
			Expect(ETagFromPayload([]byte("hello"))).To(Equal(a))
			Expect(ETagFromPayload([]byte("world"))).NotTo(Equal(a))
			Expect(r.SetETag(a)).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("Should accept a built response", func() {
			r, _ := New(message.ACK, Content, 1, []byte{1})
			Expect(r.SetMaxAge(10)).To(Succeed())
			Expect(r.SetETag([]byte{1, 2})).To(Succeed())
			Expect(r.Validate()).To(Succeed())
		})

		It("Should reject Unknown", func() {
			r, err := Unmarshal(datagram(message.ACK, 100, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Validate()).To(MatchError(cerr.UnknownCode))
		})

		It("Should reject an empty decoded ETag", func() {
			r, err := Unmarshal(datagram(message.ACK, 69, nil, 0x40))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Validate()).To(MatchError(cerr.InvalidArgument))
		})

		It("Should reject a five byte Max-Age", func() {
			r, err := Unmarshal(datagram(message.ACK, 69, nil, 0xd5, 0x01, 1, 0, 0, 0, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.MaxAge()).To(Equal(int64(MaxAgeDefault)))
			Expect(r.Validate()).To(MatchError(cerr.InvalidArgument))
		})
	})

	Describe("Payload", func() {
		It("Should copy and round trip", func() {
			r, _ := New(message.CON, Content, 9, nil)
			p := []byte("body")
			r.SetPayload(p)
			p[0] = 'x'
			b, err := r.Marshal()
			Expect(err).NotTo(HaveOccurred())
			back, err := Unmarshal(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Payload()).To(Equal([]byte("body")))

			r.SetPayload(nil)
			Expect(r.Payload()).To(BeEmpty())
		})
	})
})
