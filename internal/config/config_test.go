package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
)

func writeConfig(content string) string {
	dir, err := os.MkdirTemp("", "uctp-config")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(os.RemoveAll, dir)

	path := filepath.Join(dir, "config.toml")
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

func setEnv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("Load", func() {
	Context("without a config file", func() {
		It("should fall back to the defaults", func() {
			config, err := Load("", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(config.StartTemp).To(Equal(1000.0))
			Expect(config.CoolingRate).To(Equal(0.9995))
			Expect(config.MaxIterations).To(Equal(100000))
			Expect(config.Strategy).To(Equal("pure"))
			Expect(config.Restarts).To(Equal(4))
			Expect(config.ListenAddr).To(Equal(":8080"))
		})

		It("should fail when an explicit path does not exist", func() {
			_, err := Load(filepath.Join(os.TempDir(), "uctp-missing", "config.toml"), nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a config file", func() {
		It("should read the annealing parameters", func() {
			path := writeConfig(`
start_temp = 500.0
cooling_rate = 0.99
max_iterations = 2000
file_name = "input.json"
`)

			config, err := Load(path, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(config.StartTemp).To(Equal(500.0))
			Expect(config.CoolingRate).To(Equal(0.99))
			Expect(config.MaxIterations).To(Equal(2000))
			Expect(config.FileName).To(Equal("input.json"))
			Expect(config.Strategy).To(Equal("pure"))
		})

		It("should reject a cooling rate that does not cool", func() {
			path := writeConfig("cooling_rate = 1.0\n")

			_, err := Load(path, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("CoolingRate"))
		})

		It("should reject an unknown strategy", func() {
			path := writeConfig(`strategy = "greedy"` + "\n")

			_, err := Load(path, nil)
			Expect(err).To(HaveOccurred())
		})

		It("should accept a non-positive iteration budget", func() {
			path := writeConfig("max_iterations = 0\n")

			config, err := Load(path, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(config.MaxIterations).To(BeZero())
		})
	})

	Context("with overrides", func() {
		It("should prefer environment variables over the file", func() {
			path := writeConfig("start_temp = 500.0\n")
			setEnv("UCTP_START_TEMP", "250")
			setEnv("UCTP_STRATEGY", "restarts")

			config, err := Load(path, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(config.StartTemp).To(Equal(250.0))
			Expect(config.Strategy).To(Equal("restarts"))
		})

		It("should prefer flags over everything else", func() {
			path := writeConfig("max_iterations = 10\n")
			setEnv("UCTP_MAX_ITERATIONS", "20")

			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags.Int("max-iterations", 0, "")
			flags.Uint64("seed", 0, "")
			Expect(flags.Parse([]string{"--max-iterations=30", "--seed=7"})).To(Succeed())

			config, err := Load(path, flags)
			Expect(err).NotTo(HaveOccurred())
			Expect(config.MaxIterations).To(Equal(30))
			Expect(config.Seed).To(Equal(uint64(7)))
		})
	})
})

var _ = Describe("Config", func() {
	var config Config

	BeforeEach(func() {
		var err error
		config, err = Load("", nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should resolve a zero seed into a random one", func() {
		Expect(config.Seed).To(BeZero())
		Expect(config.ResolveSeed().Seed).NotTo(BeZero())
	})

	It("should keep an explicit seed", func() {
		config.Seed = 42
		Expect(config.ResolveSeed().Seed).To(Equal(uint64(42)))
	})

	It("should build the annealing parameters", func() {
		config.Seed = 9
		parameters := config.Parameters()
		Expect(parameters.StartTemperature).To(Equal(config.StartTemp))
		Expect(parameters.CoolingRate).To(Equal(config.CoolingRate))
		Expect(parameters.MaxIterations).To(Equal(config.MaxIterations))
		Expect(parameters.Seed).To(Equal(uint64(9)))
		Expect(parameters.Validate()).To(Succeed())
	})
})
