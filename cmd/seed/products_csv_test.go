package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadProducts_EncabezadoYComa(t *testing.T) {
	in := "nome,descricao,categoria,fabricante,prateleira,alocacao\n" +
		"Luva, nitrílica ,EPI,3M,A1,Galpão\n" +
		",sin nome,,,,\n" +
		"Papel A4\n"

	rows, err := readProducts(strings.NewReader(in), "utf8")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Luva", rows[0].Name)
	assert.Equal(t, "nitrílica", rows[0].Description)
	assert.Equal(t, "Galpão", rows[0].Allocation)
	assert.Equal(t, "Papel A4", rows[1].Name)
	assert.Empty(t, rows[1].Category)
}

func TestReadProducts_Latin1PuntoYComa(t *testing.T) {
	enc, err := charmap.ISO8859_1.NewEncoder().String("Cartão;Papelaria;Tilibra\n")
	require.NoError(t, err)

	rows, err := readProducts(bytes.NewReader([]byte(enc)), "latin1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cartão", rows[0].Name)
	assert.Equal(t, "Papelaria", rows[0].Description)
	assert.Equal(t, "Tilibra", rows[0].Category)
}

func TestReadProducts_CharsetDesconocido(t *testing.T) {
	_, err := readProducts(strings.NewReader("x"), "ebcdic")
	assert.Error(t, err)
}
