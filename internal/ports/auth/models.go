package auth

// Claims es la identidad autenticada del operador (enfermero/a).
// El motor de queries la consume solo como valor opaco adjunto a
// consultas nuevas.
type Claims struct {
	UserID   string
	Username string
	Role     string
}
