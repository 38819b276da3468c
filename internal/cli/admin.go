package cli

import (
	"context"

	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
)

const adminUsage = "usage: florabase admin users | delete ID"

func (a *App) adminCmd(ctx context.Context, args []string) error {
	switch {
	case len(args) == 1 && args[0] == "users":
		snap := a.admin.Users().Load(ctx)
		if snap.Status != resource.Loaded {
			return a.failed(snap.Message, snap.Redirect)
		}
		rows := make([][]string, 0, len(snap.Value))
		for _, u := range snap.Value {
			rows = append(rows, []string{u.ID, u.FullName(), u.Email, yesNo(u.IsAdmin)})
		}
		a.table([]string{"ID", "NAME", "EMAIL", "ADMIN"}, rows)
		return nil
	case len(args) == 2 && args[0] == "delete":
		return a.outcome(a.admin.DeleteUser(ctx, args[1]), "User deleted.")
	}
	a.printf("%s\n", adminUsage)
	return ErrUsage
}
