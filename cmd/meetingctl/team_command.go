package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FizzahNasir/FYP-Synkro/internal/adapter/repository"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/database"
	"github.com/FizzahNasir/FYP-Synkro/pkg/jwt"
)

var seedMembers = []struct {
	Name  string
	Email string
}{
	{Name: "Alice Martin", Email: "alice@test.local"},
	{Name: "Bob Chen", Email: "bob@test.local"},
	{Name: "Charlie Okafor", Email: "charlie@test.local"},
	{Name: "Diana Ruiz", Email: "diana@test.local"},
	{Name: "Eve Larsen", Email: "eve@test.local"},
}

func newTeamCommand(ctx *commandContext) *cobra.Command {
	teamCmd := &cobra.Command{
		Use:   "team",
		Short: "Manage team members and access tokens for development",
	}

	teamCmd.AddCommand(newTeamSeedCommand(ctx))
	teamCmd.AddCommand(newTeamListCommand(ctx))
	teamCmd.AddCommand(newTeamTokenCommand(ctx))

	return teamCmd
}

func newTeamSeedCommand(ctx *commandContext) *cobra.Command {
	var teamFlag string
	var expiry time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create test members and print an access token for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID := uuid.New()
			if teamFlag != "" {
				parsed, err := uuid.Parse(teamFlag)
				if err != nil {
					return fmt.Errorf("invalid team id: %w", err)
				}
				teamID = parsed
			}

			cfg, db, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if cfg.IsProduction() {
				return fmt.Errorf("refusing to seed test members in production")
			}

			members := repository.NewTeamMemberRepository(db)
			manager := jwt.NewManager(cfg.Auth.AccessSecret, cfg.Auth.Issuer, expiry)

			rows := make([][]string, 0, len(seedMembers))
			for _, seed := range seedMembers {
				existing, err := members.FindByEmail(cmd.Context(), seed.Email)
				if err != nil {
					return err
				}
				member := existing
				if member == nil {
					member = &entities.TeamMember{
						ID:       uuid.New(),
						TeamID:   teamID,
						FullName: seed.Name,
						Email:    seed.Email,
						IsActive: true,
					}
					if err := members.Create(cmd.Context(), member); err != nil {
						return fmt.Errorf("create %s: %w", seed.Email, err)
					}
				}

				token, err := manager.GenerateAccessToken(member.ID, member.TeamID, member.Email)
				if err != nil {
					return err
				}
				rows = append(rows, []string{member.FullName, member.Email, member.TeamID.String(), token})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Name", "Email", "Team", "Access token"}, rows, nil))
			fmt.Fprintf(out, "Tokens expire in %s\n", expiry)
			return nil
		},
	}

	cmd.Flags().StringVar(&teamFlag, "team", "", "Team id for new members (default: a new team)")
	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "Access token lifetime")
	return cmd
}

func newTeamListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <team-id>",
		Short: "List members of a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid team id: %w", err)
			}

			_, db, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			members, err := repository.NewTeamMemberRepository(db).ListByTeam(cmd.Context(), teamID)
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No members")
				return nil
			}

			rows := make([][]string, 0, len(members))
			for _, m := range members {
				active := "yes"
				if !m.IsActive {
					active = "no"
				}
				rows = append(rows, []string{m.ID.String(), m.FullName, m.Email, active})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Email", "Active"}, rows, nil))
			return nil
		},
	}
}

func newTeamTokenCommand(ctx *commandContext) *cobra.Command {
	var expiry time.Duration

	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Print an access token for an existing member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			member, err := repository.NewTeamMemberRepository(db).FindByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if member == nil {
				return fmt.Errorf("no member with email %q", strings.TrimSpace(args[0]))
			}

			token, err := jwt.NewManager(cfg.Auth.AccessSecret, cfg.Auth.Issuer, expiry).
				GenerateAccessToken(member.ID, member.TeamID, member.Email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "Access token lifetime")
	return cmd
}
