package cmd

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
)

func setenv(key, value string) {
	GinkgoHelper()
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("EnvName", func() {
	It("should prefix and upper-case the flag name", func() {
		Expect(EnvName("build-dir")).To(Equal("FRONTEND_ENTRY_BUILD_DIR"))
		Expect(EnvName("watch-poll-period")).To(Equal("FRONTEND_ENTRY_WATCH_POLL_PERIOD"))
	})
})

var _ = Describe("applyEnv", func() {
	var flags *pflag.FlagSet
	var dir string
	var period time.Duration

	BeforeEach(func() {
		flags = pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.StringVar(&dir, "build-dir", "default", "")
		flags.DurationVar(&period, "watch-poll-period", time.Second, "")
	})

	It("should fill flags from the environment", func() {
		setenv("FRONTEND_ENTRY_BUILD_DIR", "/srv/frontend/build")
		setenv("FRONTEND_ENTRY_WATCH_POLL_PERIOD", "250ms")
		Expect(flags.Parse(nil)).To(Succeed())

		Expect(applyEnv(flags)).To(Succeed())
		Expect(dir).To(Equal("/srv/frontend/build"))
		Expect(period).To(Equal(250 * time.Millisecond))
	})

	It("should prefer flags given on the command line", func() {
		setenv("FRONTEND_ENTRY_BUILD_DIR", "/from/env")
		Expect(flags.Parse([]string{"--build-dir", "/from/flag"})).To(Succeed())

		Expect(applyEnv(flags)).To(Succeed())
		Expect(dir).To(Equal("/from/flag"))
	})

	It("should keep defaults for unset or blank variables", func() {
		setenv("FRONTEND_ENTRY_BUILD_DIR", "  ")
		Expect(flags.Parse(nil)).To(Succeed())

		Expect(applyEnv(flags)).To(Succeed())
		Expect(dir).To(Equal("default"))
		Expect(period).To(Equal(time.Second))
	})

	It("should reject malformed values", func() {
		setenv("FRONTEND_ENTRY_WATCH_POLL_PERIOD", "soon")
		Expect(flags.Parse(nil)).To(Succeed())

		err := applyEnv(flags)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("FRONTEND_ENTRY_WATCH_POLL_PERIOD"))
	})
})

var _ = Describe("defaultBuildDir", func() {
	It("should point two levels above the executable", func() {
		exe, err := os.Executable()
		Expect(err).ToNot(HaveOccurred())
		exe, err = filepath.EvalSymlinks(exe)
		Expect(err).ToNot(HaveOccurred())

		dir, err := defaultBuildDir()
		Expect(err).ToNot(HaveOccurred())
		Expect(dir).To(Equal(filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(exe))), "frontend", "build")))
	})
})
