package frontend_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/meln5674/frontend-entry-server/pkg/frontend"
)

var _ = Describe("Asset", func() {
	var dir string
	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should read the whole file", func() {
		path := filepath.Join(dir, "index.html")
		Expect(os.WriteFile(path, []byte("<html>OK</html>"), 0o644)).To(Succeed())

		data, err := frontend.NewAsset(path).Read()
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("<html>OK</html>"))
	})

	It("should report a missing file as ErrAssetMissing", func() {
		asset := frontend.NewAsset(filepath.Join(dir, "index.html"))

		_, err := asset.Read()
		Expect(err).To(MatchError(frontend.ErrAssetMissing))
		Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())

		_, err = asset.Stat()
		Expect(err).To(MatchError(frontend.ErrAssetMissing))
	})

	It("should not treat other read failures as missing", func() {
		path := filepath.Join(dir, "index.html")
		Expect(os.Mkdir(path, 0o755)).To(Succeed())

		_, err := frontend.NewAsset(path).Read()
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, frontend.ErrAssetMissing)).To(BeFalse())
	})
})
