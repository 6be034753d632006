// Package main writes a local CA and a dev server certificate signed by it
// into a directory. Point the server's TLS settings at server.crt and
// server.key, and the client's PUZZLE_CA_FILE at ca.crt.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atinyakov/puzzlenotes/internal/certgen"
	"github.com/spf13/cobra"
)

func main() {
	var (
		dir   string
		hosts []string
	)
	cmd := &cobra.Command{
		Use:           "certgen",
		Short:         "Generate dev TLS certificates",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dir, hosts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dir, "out", "certs", "output directory")
	cmd.Flags().StringSliceVar(&hosts, "hosts", []string{"localhost", "127.0.0.1"}, "server host names and IPs")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dir string, hosts []string, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	caPEM, caKeyPEM, err := certgen.GenerateCA("puzzlenotes dev CA")
	if err != nil {
		return err
	}
	if err := writePair(dir, "ca", caPEM, caKeyPEM); err != nil {
		return err
	}

	caCert, caKey, err := certgen.ParseCA(caPEM, caKeyPEM)
	if err != nil {
		return err
	}
	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, caCert, caKey)
	if err != nil {
		return err
	}
	if err := writePair(dir, "server", certPEM, keyPEM); err != nil {
		return err
	}

	fmt.Fprintf(out, "Certificates generated into %s\n", dir)
	return nil
}

// writePair writes name.crt and name.key. Keys are readable by the owner only.
func writePair(dir, name string, certPEM, keyPEM []byte) error {
	if err := os.WriteFile(filepath.Join(dir, name+".crt"), certPEM, 0o644); err != nil {
		return fmt.Errorf("write %s cert: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".key"), keyPEM, 0o600); err != nil {
		return fmt.Errorf("write %s key: %w", name, err)
	}
	return nil
}
