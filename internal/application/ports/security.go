package ports

// PasswordHasher define el puerto para hashear y verificar contraseñas (hash salado, unidireccional).
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify compara en tiempo constante; false si no coincide o el hash es inválido.
	Verify(plaintext, hash string) bool
	// DummyHash devuelve un hash válido para igualar el tiempo de respuesta cuando el usuario no existe.
	DummyHash() string
}
