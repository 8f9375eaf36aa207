package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/minibank/config"
	"github.com/vadiminshakov/minibank/internal/session"
)

// DefaultConfigFile is where the wizard writes when no path is given.
const DefaultConfigFile = "minibank.yaml"

// setupAnswers are the raw wizard inputs.
type setupAnswers struct {
	StateDir       string
	Store          string
	Currency       string
	Latency        string
	Username       string
	Password       string
	OpeningBalance string
	OpeningGold    string
	GoldPrice      string
}

func defaultAnswers() setupAnswers {
	def := config.Default()
	return setupAnswers{
		StateDir:       def.StateDir,
		Store:          string(def.Store),
		Currency:       def.Currency,
		Latency:        def.Latency.String(),
		Username:       def.Credentials.Username,
		OpeningBalance: def.OpeningBalance.String(),
		OpeningGold:    def.OpeningGold.String(),
		GoldPrice:      def.GoldPricePerGram.String(),
	}
}

// RunSetup launches the configuration wizard and writes the result to path.
func RunSetup(path string) error {
	if path == "" {
		path = DefaultConfigFile
	}

	ans := defaultAnswers()
	var confirm bool

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MINIBANK CONFIG WIZARD"))
	fmt.Println(mutedStyle.Render("Set up your demo account.\n"))

	fmt.Println(stepStyle.Render("STEP 1: STORAGE"))
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("State directory").Value(&ans.StateDir).Validate(validateRequired("state directory")),
		huh.NewSelect[string]().
			Title("Record store").
			Options(
				huh.NewOption("JSON file", string(config.StoreFile)),
				huh.NewOption("Write-ahead log", string(config.StoreWAL)),
				huh.NewOption("In memory (nothing is kept)", string(config.StoreMemory)),
			).
			Value(&ans.Store),
	)).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 2: ACCOUNT"))
	err = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Login email").Value(&ans.Username).Validate(validateRequired("login email")),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&ans.Password).
			Validate(validateRequired("password")),
		huh.NewInput().Title("Opening balance").Value(&ans.OpeningBalance).Validate(validateNonNegative),
		huh.NewInput().Title("Opening gold (grams)").Value(&ans.OpeningGold).Validate(validateNonNegative),
	)).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 3: MARKET"))
	err = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Currency").Description("ISO 4217 code").Value(&ans.Currency),
		huh.NewInput().Title("Gold price per gram").Value(&ans.GoldPrice).Validate(validatePositive),
		huh.NewInput().Title("Processing delay").Description("e.g. 1s, 0s to disable").Value(&ans.Latency),
	)).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MINIBANK CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))
	fmt.Println(boxStyle.Render(fmt.Sprintf(
		"State: %s (%s)\nLogin: %s\nOpening balance: %s %s\nOpening gold: %sg",
		ans.StateDir, ans.Store, ans.Username, ans.OpeningBalance, strings.ToUpper(ans.Currency), ans.OpeningGold,
	)))

	err = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Save configuration?").Affirmative("Yes, save").Negative("No, exit").Value(&confirm),
	)).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return errors.New("setup cancelled by user")
	}

	hash, err := session.HashPassword(ans.Password)
	if err != nil {
		return err
	}

	tmp, err := ans.configTmp(hash)
	if err != nil {
		return err
	}
	if err := writeConfig(path, tmp); err != nil {
		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("\n✓ Configuration saved to %s", path)))
	return nil
}

// configTmp turns the answers into the yaml shape, storing only the password hash.
func (a setupAnswers) configTmp(passwordHash string) (config.ConfigTmp, error) {
	tmp := config.ConfigTmp{
		StateDir: strings.TrimSpace(a.StateDir),
		Store:    a.Store,
		Currency: strings.ToUpper(strings.TrimSpace(a.Currency)),
		Credentials: config.CredentialsTmp{
			Username:     strings.TrimSpace(a.Username),
			PasswordHash: passwordHash,
		},
		GoldPricePerGram: strings.TrimSpace(a.GoldPrice),
		OpeningBalance:   strings.TrimSpace(a.OpeningBalance),
		OpeningGold:      strings.TrimSpace(a.OpeningGold),
	}

	if latency := strings.TrimSpace(a.Latency); latency != "" {
		d, err := time.ParseDuration(latency)
		if err != nil {
			return config.ConfigTmp{}, errors.Wrapf(err, "incorrect processing delay %q", latency)
		}
		tmp.Latency = &d
	}

	return tmp, nil
}

func writeConfig(path string, tmp config.ConfigTmp) error {
	data, err := yaml.Marshal(tmp)
	if err != nil {
		return errors.Wrap(err, "generate yaml")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "save config file")
	}
	return nil
}

func validateNonNegative(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
