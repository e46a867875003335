package factory

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/opd-ai/gnucrypto/cipher"
	"github.com/opd-ai/gnucrypto/crypto"
	"github.com/opd-ai/gnucrypto/hash"
	"github.com/opd-ai/gnucrypto/interfaces"
	"github.com/opd-ai/gnucrypto/limits"
	"github.com/sirupsen/logrus"
)

// Environment variables read by NewPrimitiveFactory.
const (
	EnvSelfTestOnCreate = "GNUCRYPTO_SELF_TEST_ON_CREATE"
	EnvStrictSelfTest   = "GNUCRYPTO_STRICT_SELF_TEST"
	EnvDefaultBlockSize = "GNUCRYPTO_DEFAULT_BLOCK_SIZE"
	EnvLogLevel         = "GNUCRYPTO_LOG_LEVEL"
)

var (
	// ErrUnknownAlgorithm is returned for names not in the registry.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrSelfTestFailed is returned in strict mode when a primitive fails its
	// known-answer test.
	ErrSelfTestFailed = errors.New("self-test failed")

	// ErrNilConfig is returned by UpdateConfig for a nil configuration.
	ErrNilConfig = errors.New("config cannot be nil")
)

// Registries map lower-cased names and aliases to constructors.
var (
	cipherRegistry = map[string]func() interfaces.IBlockCipher{
		cipher.RijndaelName: func() interfaces.IBlockCipher { return cipher.NewRijndael() },
		"aes":               func() interfaces.IBlockCipher { return cipher.NewRijndael() },
		cipher.KhazadName:   func() interfaces.IBlockCipher { return cipher.NewKhazad() },
		cipher.SquareName:   func() interfaces.IBlockCipher { return cipher.NewSquare() },
	}

	hashRegistry = map[string]func() interfaces.IMessageDigest{
		hash.SHA160Name:    func() interfaces.IMessageDigest { return hash.NewSHA160() },
		"sha-1":            func() interfaces.IMessageDigest { return hash.NewSHA160() },
		"sha":              func() interfaces.IMessageDigest { return hash.NewSHA160() },
		hash.RIPEMD128Name: func() interfaces.IMessageDigest { return hash.NewRIPEMD128() },
		"rmd128":           func() interfaces.IMessageDigest { return hash.NewRIPEMD128() },
		hash.RIPEMD160Name: func() interfaces.IMessageDigest { return hash.NewRIPEMD160() },
		"rmd160":           func() interfaces.IMessageDigest { return hash.NewRIPEMD160() },
		hash.WhirlpoolName: func() interfaces.IMessageDigest { return hash.NewWhirlpool() },
	}

	cipherNames = []string{cipher.KhazadName, cipher.RijndaelName, cipher.SquareName}
	hashNames   = []string{hash.RIPEMD128Name, hash.RIPEMD160Name, hash.SHA160Name, hash.WhirlpoolName}
)

// PrimitiveFactory creates cipher and hash engines by name and applies the
// self-test policy from its configuration. It is safe for concurrent use.
type PrimitiveFactory struct {
	mu            sync.RWMutex
	defaultConfig *interfaces.PrimitiveConfig
}

// NewPrimitiveFactory creates a factory with the default configuration
// adjusted by GNUCRYPTO_* environment variables.
func NewPrimitiveFactory() *PrimitiveFactory {
	defaultConfig := createDefaultConfig()
	applyEnvironmentOverrides(defaultConfig)
	applyLogLevel(defaultConfig.LogLevel)
	logConfigurationInfo(defaultConfig)

	return &PrimitiveFactory{
		defaultConfig: defaultConfig,
	}
}

// createDefaultConfig self-tests every primitive on creation and refuses to
// hand out one that fails. LogLevel is left empty so the process-wide logrus
// level is untouched unless asked for.
func createDefaultConfig() *interfaces.PrimitiveConfig {
	return &interfaces.PrimitiveConfig{
		SelfTestOnCreate: true,
		StrictSelfTest:   true,
		DefaultBlockSize: 16,
	}
}

func applyEnvironmentOverrides(config *interfaces.PrimitiveConfig) {
	parseBoolSetting(EnvSelfTestOnCreate, &config.SelfTestOnCreate)
	parseBoolSetting(EnvStrictSelfTest, &config.StrictSelfTest)
	parseBlockSizeSetting(config)
	parseLogLevelSetting(config)
}

// parseBoolSetting overwrites *dst with the parsed value of env, logging a
// warning and keeping the default when the value is not a boolean.
func parseBoolSetting(env string, dst *bool) {
	raw := os.Getenv(env)
	if raw == "" {
		return
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		crypto.NewLogger("factory", "parseBoolSetting").
			WithError(err, "parse_error", "env_override").
			WithFields(logrus.Fields{"env_var": env, "value": raw, "using_value": *dst}).
			Warn("Failed to parse environment variable, using default")
		return
	}
	*dst = v
}

// parseBlockSizeSetting reads GNUCRYPTO_DEFAULT_BLOCK_SIZE, bounded by
// [limits.MinBlockSize, limits.MaxBlockSize].
func parseBlockSizeSetting(config *interfaces.PrimitiveConfig) {
	raw := os.Getenv(EnvDefaultBlockSize)
	if raw == "" {
		return
	}
	bs, err := strconv.Atoi(raw)
	if err != nil {
		crypto.NewLogger("factory", "parseBlockSizeSetting").
			WithError(err, "parse_error", "env_override").
			WithFields(logrus.Fields{"env_var": EnvDefaultBlockSize, "value": raw, "using_value": config.DefaultBlockSize}).
			Warn("Failed to parse GNUCRYPTO_DEFAULT_BLOCK_SIZE environment variable, using default")
		return
	}
	if bs < limits.MinBlockSize || bs > limits.MaxBlockSize {
		crypto.NewLogger("factory", "parseBlockSizeSetting").WithFields(logrus.Fields{
			"env_var":     EnvDefaultBlockSize,
			"value":       bs,
			"min":         limits.MinBlockSize,
			"max":         limits.MaxBlockSize,
			"using_value": config.DefaultBlockSize,
		}).Warn("GNUCRYPTO_DEFAULT_BLOCK_SIZE value out of bounds, using default")
		return
	}
	config.DefaultBlockSize = bs
}

func parseLogLevelSetting(config *interfaces.PrimitiveConfig) {
	raw := os.Getenv(EnvLogLevel)
	if raw == "" {
		return
	}
	if _, err := logrus.ParseLevel(raw); err != nil {
		crypto.NewLogger("factory", "parseLogLevelSetting").
			WithError(err, "parse_error", "env_override").
			WithFields(logrus.Fields{"env_var": EnvLogLevel, "value": raw}).
			Warn("Failed to parse GNUCRYPTO_LOG_LEVEL environment variable, leaving level unchanged")
		return
	}
	config.LogLevel = raw
}

func applyLogLevel(name string) {
	if name == "" {
		return
	}
	if level, err := logrus.ParseLevel(name); err == nil {
		logrus.SetLevel(level)
	}
}

func logConfigurationInfo(config *interfaces.PrimitiveConfig) {
	logrus.WithFields(logrus.Fields{
		"function":            "NewPrimitiveFactory",
		"self_test_on_create": config.SelfTestOnCreate,
		"strict_self_test":    config.StrictSelfTest,
		"default_block_size":  config.DefaultBlockSize,
		"log_level":           config.LogLevel,
	}).Info("Created primitive factory with configuration")
}

// CreateCipher returns a new engine for name using the default configuration.
func (f *PrimitiveFactory) CreateCipher(name string) (interfaces.IBlockCipher, error) {
	return f.CreateCipherWithConfig(name, nil)
}

// CreateCipherWithConfig returns a new engine for name. A nil config selects
// the factory default; any other config must pass Validate.
func (f *PrimitiveFactory) CreateCipherWithConfig(name string, config *interfaces.PrimitiveConfig) (interfaces.IBlockCipher, error) {
	ctor, ok := cipherRegistry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: cipher %q", ErrUnknownAlgorithm, name)
	}
	resolved, err := f.resolve(config)
	if err != nil {
		return nil, err
	}
	c := ctor()
	if err := f.verify(c.Name(), c, resolved); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateHash returns a new digest for name using the default configuration.
func (f *PrimitiveFactory) CreateHash(name string) (interfaces.IMessageDigest, error) {
	return f.CreateHashWithConfig(name, nil)
}

// CreateHashWithConfig returns a new digest for name. A nil config selects the
// factory default; any other config must pass Validate.
func (f *PrimitiveFactory) CreateHashWithConfig(name string, config *interfaces.PrimitiveConfig) (interfaces.IMessageDigest, error) {
	ctor, ok := hashRegistry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: hash %q", ErrUnknownAlgorithm, name)
	}
	resolved, err := f.resolve(config)
	if err != nil {
		return nil, err
	}
	d := ctor()
	if err := f.verify(d.Name(), d, resolved); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateBlock returns a crypto/cipher.Block for the named cipher. The block
// size is the configured default when the cipher supports it and the
// cipher's own default otherwise.
func (f *PrimitiveFactory) CreateBlock(name string, key []byte) (*cipher.Block, error) {
	c, err := f.CreateCipher(name)
	if err != nil {
		return nil, err
	}
	return cipher.NewBlock(c, key, f.BlockSizeFor(c))
}

// BlockSizeFor picks the block size CreateBlock would use for c.
func (f *PrimitiveFactory) BlockSizeFor(c interfaces.IBlockCipher) int {
	f.mu.RLock()
	bs := f.defaultConfig.DefaultBlockSize
	f.mu.RUnlock()
	if slices.Contains(c.BlockSizes(), bs) {
		return bs
	}
	return c.DefaultBlockSize()
}

// resolve returns config after validating it, or the factory default when
// config is nil.
func (f *PrimitiveFactory) resolve(config *interfaces.PrimitiveConfig) (*interfaces.PrimitiveConfig, error) {
	if config != nil {
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return config, nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.defaultConfig, nil
}

// verify applies the self-test policy to a freshly created primitive.
func (f *PrimitiveFactory) verify(name string, p interfaces.ISelfTester, config *interfaces.PrimitiveConfig) error {
	if !config.SelfTestOnCreate || p.SelfTest() {
		return nil
	}
	if config.StrictSelfTest {
		crypto.NewLogger("factory", "verify").
			WithCaller().
			WithField("primitive", name).
			Error("Refusing to create primitive that failed its self-test")
		return fmt.Errorf("%w: %s", ErrSelfTestFailed, name)
	}
	logrus.WithFields(logrus.Fields{
		"function":  "verify",
		"primitive": name,
	}).Warn("Primitive failed its self-test, continuing because strict mode is off")
	return nil
}

// CipherNames returns the canonical cipher names in sorted order.
func (f *PrimitiveFactory) CipherNames() []string { return slices.Clone(cipherNames) }

// HashNames returns the canonical hash names in sorted order.
func (f *PrimitiveFactory) HashNames() []string { return slices.Clone(hashNames) }

// SelfTestAll runs the cached self-test of every registered primitive.
func (f *PrimitiveFactory) SelfTestAll() map[string]bool {
	results := make(map[string]bool, len(cipherNames)+len(hashNames))
	for _, n := range cipherNames {
		results[n] = cipherRegistry[n]().SelfTest()
	}
	for _, n := range hashNames {
		results[n] = hashRegistry[n]().SelfTest()
	}
	return results
}

// GetCurrentConfig returns a copy of the current default configuration.
func (f *PrimitiveFactory) GetCurrentConfig() *interfaces.PrimitiveConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()

	c := *f.defaultConfig
	return &c
}

// UpdateConfig validates config and makes a copy of it the new default.
func (f *PrimitiveFactory) UpdateConfig(config *interfaces.PrimitiveConfig) error {
	if config == nil {
		return ErrNilConfig
	}
	if err := config.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":               "UpdateConfig",
		"old_strict_self_test":   f.defaultConfig.StrictSelfTest,
		"new_strict_self_test":   config.StrictSelfTest,
		"old_default_block_size": f.defaultConfig.DefaultBlockSize,
		"new_default_block_size": config.DefaultBlockSize,
	}).Info("Updating factory configuration")

	c := *config
	f.defaultConfig = &c
	applyLogLevel(c.LogLevel)
	return nil
}
