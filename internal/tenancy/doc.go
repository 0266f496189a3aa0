// Package tenancy aísla los datos de cada tenant (cuenta de negocio) que comparte
// la base de datos.
//
// Primitivas que usa la lógica de negocio:
//   - Context.HasTenant / Context.TenantID: tenant de la petición, resuelto una vez desde el Principal.
//   - WithoutScope / RunWithoutScope: suspende el filtro por tenant para una sola operación auditada.
//   - Stamp: asigna el tenant a una entidad al crearla.
//
// El filtro por tenant lo inyecta la capa de persistencia (postgres.ScopedDB) a partir
// del context.Context de cada llamada; ningún otro código debe filtrar por tenant a mano.
package tenancy
