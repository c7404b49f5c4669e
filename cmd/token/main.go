// token emite un JWT firmado con JWT_SECRET para probar la API en local.
//
// Uso: go run ./cmd/token -role admin [-user <uuid>] [-minutes 60]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/jwt"
)

func main() {
	role := flag.String("role", jwt.RoleAdmin, "rol: admin | oficina | mecanico")
	user := flag.String("user", "", "ID de usuario (por defecto uno aleatorio)")
	minutes := flag.Int("minutes", 0, "validez en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	switch *role {
	case jwt.RoleAdmin, jwt.RoleOffice, jwt.RoleMechanic:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", *role)
		os.Exit(2)
	}
	if *user == "" {
		*user = uuid.New().String()
	}
	if *minutes <= 0 {
		*minutes = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, *minutes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
