package proxypool

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stat", func() {
	Describe("MarshalJSON()", func() {
		It("marks an empty pool as direct", func() {
			data, err := json.Marshal(&Stat{Mode: ModeDisabled})
			Expect(err).NotTo(HaveOccurred())

			var result map[string]any
			Expect(json.Unmarshal(data, &result)).To(Succeed())
			Expect(result).To(HaveKeyWithValue("direct", true))
			Expect(result).To(HaveKeyWithValue("mode", "disabled"))
			Expect(result).To(HaveKeyWithValue("proxies", float64(0)))
		})

		It("includes the pool counters", func() {
			data, err := json.Marshal(&Stat{Mode: ModeScrape, Version: 2, Proxies: 10, Selections: 13, Cursor: 3})
			Expect(err).NotTo(HaveOccurred())

			var result map[string]any
			Expect(json.Unmarshal(data, &result)).To(Succeed())
			Expect(result).To(HaveKeyWithValue("direct", false))
			Expect(result).To(HaveKeyWithValue("version", float64(2)))
			Expect(result).To(HaveKeyWithValue("proxies", float64(10)))
			Expect(result).To(HaveKeyWithValue("selections", float64(13)))
			Expect(result).To(HaveKeyWithValue("cursor", float64(3)))
			Expect(result).To(HaveKey("initializedAt"))
		})
	})
})
