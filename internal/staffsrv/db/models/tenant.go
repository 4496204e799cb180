package models

/*
 Control plane table "tenant".

    Column    |          Type          | Nullable
--------------+------------------------+----------
 id           | uuid                   | not null
 tenant_code  | character varying      | not null
 tenant_name  | character varying      | not null
 password     | character varying      |
Indexes:
    "tenant_pkey" PRIMARY KEY, btree (id)
    "tenant_tenant_code_key" UNIQUE, btree (tenant_code)
*/

// Tenant is the control plane record of a tenant. TenantName is also the
// physical name of the tenant database. The password digest is never read.
type Tenant struct {
	ID         string `db:"id" json:"id"`
	TenantCode string `db:"tenant_code" json:"tenant_code"`
	TenantName string `db:"tenant_name" json:"tenant_name"`
}
