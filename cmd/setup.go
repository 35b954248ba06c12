package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"thumbcraft/internal/youtube"
	"thumbcraft/pkg/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Thumbcraft",
	Long:  `Store API credentials, create working directories, and configure the environment.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🖼️  Thumbcraft Setup"))

	steps := []struct {
		name string
		fn   func(cmd *cobra.Command) error
	}{
		{"Creating directories", func(*cobra.Command) error { return createDirectories() }},
		{"Storing credentials", func(*cobra.Command) error { return configureCredentials() }},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(cmd); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	printNextSteps()
	return nil
}

func createDirectories() error {
	dirs := []string{"fonts", "output/tmp"}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func configureCredentials() error {
	var openaiKey, replicateToken, googleKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API Key").
				Description("https://platform.openai.com/api-keys").
				EchoMode(huh.EchoModePassword).
				Value(&openaiKey).
				Validate(required("OpenAI API Key")),
			huh.NewInput().
				Title("Replicate API Token").
				Description("https://replicate.com/account/api-tokens").
				EchoMode(huh.EchoModePassword).
				Value(&replicateToken).
				Validate(required("Replicate API Token")),
			huh.NewInput().
				Title("Google API Key").
				Description("YouTube Data API v3 key from https://console.cloud.google.com/apis/credentials").
				EchoMode(huh.EchoModePassword).
				Value(&googleKey),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	written, err := writeCredentialFiles(".", map[config.Credential]string{
		config.CredentialOpenAI:    openaiKey,
		config.CredentialReplicate: replicateToken,
		config.CredentialGoogle:    googleKey,
	})
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Wrote %d credential file(s)", written)))
	return nil
}

// writeCredentialFiles stores each non-empty secret as <dir>/<name>.txt,
// readable by the owner only.
func writeCredentialFiles(dir string, secrets map[config.Credential]string) (int, error) {
	written := 0
	for name, value := range secrets {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		path := filepath.Join(dir, string(name)+".txt")
		if err := os.WriteFile(path, []byte(value+"\n"), 0600); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}

func configureEnv(cmd *cobra.Command) error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureGroq(env); err != nil {
		return err
	}

	if err := configureGCP(env); err != nil {
		return err
	}

	if err := setupYouTubeOAuth(cmd, env); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("YouTube OAuth skipped: %v", err)))
	}

	if err := writeEnvFile(".env", env); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func configureGroq(env map[string]string) error {
	var key string
	if err := huh.NewInput().
		Title("Groq API Key (optional)").
		Description("Set llm.provider: groq in config.yaml to use it. https://console.groq.com/keys").
		EchoMode(huh.EchoModePassword).
		Value(&key).
		Run(); err != nil {
		return err
	}

	if key = strings.TrimSpace(key); key != "" {
		env["GROQ_API_KEY"] = key
	}
	return nil
}

func configureGCP(env map[string]string) error {
	var setupGCP bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud?").
		Description("Optional: Secret Manager credentials and a GCS bucket for published artifacts").
		Value(&setupGCP).
		Run(); err != nil {
		return err
	}

	if !setupGCP {
		return nil
	}

	var project, bucket string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Google Cloud Project ID").
				Value(&project).
				Placeholder(getActiveProject()),
			huh.NewInput().
				Title("GCS Bucket (optional)").
				Value(&bucket),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	project = strings.TrimSpace(project)
	if project == "" {
		project = getActiveProject()
	}
	if project != "" {
		env["GOOGLE_CLOUD_PROJECT"] = project
	}
	if bucket = strings.TrimSpace(bucket); bucket != "" {
		env["GCS_BUCKET"] = bucket
	}

	if project != "" && commandExists("gcloud") {
		if err := enableGCPAPIs(project); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
		}
	} else if project != "" {
		fmt.Println(warnStyle.Render("gcloud CLI not found, enable the YouTube Data API manually"))
	}

	return nil
}

func getActiveProject() string {
	if !commandExists("gcloud") {
		return ""
	}
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func enableGCPAPIs(project string) error {
	apis := []string{
		"youtube.googleapis.com",
		"secretmanager.googleapis.com",
		"storage.googleapis.com",
	}

	return runWithSpinner("Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", project)
		return runSetupCmd("gcloud", args...)
	})
}

func setupYouTubeOAuth(cmd *cobra.Command, env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup YouTube OAuth?").
		Description("Required for publishing thumbnails and descriptions").
		Value(&setup).
		Run(); err != nil || !setup {
		return err
	}

	fmt.Println(infoStyle.Render(`
To create OAuth credentials:
1. Go to https://console.cloud.google.com/apis/credentials
2. Click "Create Credentials" → "OAuth client ID"
3. Choose "Desktop app" as application type
4. Copy the Client ID and Client Secret
`))

	var clientID, clientSecret string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("YouTube Client ID").
				Value(&clientID),
			huh.NewInput().
				Title("YouTube Client Secret").
				EchoMode(huh.EchoModePassword).
				Value(&clientSecret),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("client id and secret are both required")
	}

	env["YOUTUBE_CLIENT_ID"] = clientID
	env["YOUTUBE_CLIENT_SECRET"] = clientSecret

	var authenticate bool
	if err := huh.NewConfirm().
		Title("Authenticate with YouTube now?").
		Description("Opens browser to complete OAuth flow").
		Value(&authenticate).
		Run(); err != nil {
		return err
	}

	if authenticate {
		auth := youtube.NewAuth(clientID, clientSecret, youtubeTokenPath, "")
		if err := runYouTubeAuth(cmd.Context(), auth); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("OAuth flow failed: %v", err)))
			fmt.Println(infoStyle.Render("You can retry later with: thumbcraft auth youtube"))
		}
	}

	return nil
}

var envOrder = []string{
	"GOOGLE_CLOUD_PROJECT",
	"GCS_BUCKET",
	"GROQ_API_KEY",
	"YOUTUBE_CLIENT_ID",
	"YOUTUBE_CLIENT_SECRET",
}

func writeEnvFile(path string, env map[string]string) error {
	var buf bytes.Buffer
	for _, key := range envOrder {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(&buf, "%s=%s\n", key, val)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Add TrueType fonts to: fonts/ (default Exo2-Bold.ttf)")
	fmt.Println("  2. Run: thumbcraft thumbnail -b background.png -t \"your title\"")
	fmt.Println("  3. Run: thumbcraft describe -s \"one sentence summary\" -e <video id>")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

const youtubeTokenPath = "./youtube_token.json"
