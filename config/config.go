package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tradewind/crypto"

	"github.com/BurntSushi/toml"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

type Config struct {
	RPCAddress   string `toml:"RPCAddress"`
	DataDir      string `toml:"DataDir"`
	NetworkName  string `toml:"NetworkName"`
	AdminAddress string `toml:"AdminAddress"`
	VaultAddress string `toml:"VaultAddress"`

	Fees  FeeGenesis  `toml:"Fees"`
	Quota QuotaConfig `toml:"Quota"`
}

// FeeGenesis seeds the fee configuration on a fresh data directory. Once the
// node has state, the admin RPC surface owns these values.
type FeeGenesis struct {
	ProtocolFeeBps                 uint32 `toml:"ProtocolFeeBps"`
	DisputeHandlerFeeCommissionBps uint32 `toml:"DisputeHandlerFeeCommissionBps"`
	MaxDisputeHandlerFeeBps        uint32 `toml:"MaxDisputeHandlerFeeBps"`
}

// QuotaConfig bounds per-address offer and bid creations. Zero values disable
// enforcement.
type QuotaConfig struct {
	MaxCreationsPerEpoch uint32 `toml:"MaxCreationsPerEpoch"`
	EpochSeconds         uint32 `toml:"EpochSeconds"`
}

// Load loads the configuration from the given path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "tradewind-local"
	}
	if strings.TrimSpace(cfg.VaultAddress) == "" {
		cfg.VaultAddress = defaultVaultAddress()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks address fields decode to 20-byte payloads with the expected
// prefix.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AdminAddress) == "" {
		return fmt.Errorf("config: AdminAddress required")
	}
	if _, err := c.Admin(); err != nil {
		return fmt.Errorf("config: invalid AdminAddress: %w", err)
	}
	if _, err := c.Vault(); err != nil {
		return fmt.Errorf("config: invalid VaultAddress: %w", err)
	}
	return nil
}

// Admin returns the decoded admin principal.
func (c *Config) Admin() ([20]byte, error) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(c.AdminAddress))
	if err != nil {
		return [20]byte{}, err
	}
	return addr.RawAddress(), nil
}

// Vault returns the decoded escrow vault address.
func (c *Config) Vault() ([20]byte, error) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(c.VaultAddress))
	if err != nil {
		return [20]byte{}, err
	}
	return addr.RawAddress(), nil
}

// createDefault creates and saves a default configuration file. The generated
// admin key controls the node's admin surface until replaced.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	admin := key.PubKey().Address()

	cfg := &Config{
		RPCAddress:   ":8545",
		DataDir:      "./tradewind-data",
		NetworkName:  "tradewind-local",
		AdminAddress: admin.String(),
		VaultAddress: defaultVaultAddress(),
		Fees: FeeGenesis{
			ProtocolFeeBps:                 50,
			DisputeHandlerFeeCommissionBps: 1000,
			MaxDisputeHandlerFeeBps:        500,
		},
		Quota: QuotaConfig{
			MaxCreationsPerEpoch: 0,
			EpochSeconds:         0,
		},
	}

	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// defaultVaultAddress derives a fixed, keyless address for escrowed value so
// fresh nodes agree on where custody holds funds.
func defaultVaultAddress() string {
	seed := ethcrypto.Keccak256([]byte("tradewind/vault/v1"))
	var raw [20]byte
	copy(raw[:], seed[12:])
	return crypto.MustNewAddress(crypto.TradePrefix, raw[:]).String()
}
