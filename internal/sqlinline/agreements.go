package sqlinline

const QInsertTemplate = `--sql 904a34f2-1086-4a1d-b7e1-c4164ba9f8e1
insert into agreement_templates(id, kind, version, title, body_ref, is_active, created_at)
values ($1::uuid, $2::text, $3::int, $4::text, $5::text, true, now());
`

const QSelectTemplateByID = `--sql f0068249-7a6e-4876-9f2a-1f4083555221
select id, kind, version, title, body_ref, is_active, created_at
from agreement_templates
where id = $1::uuid;
`

const QSelectActiveTemplateByKind = `--sql 5abfedf0-d198-4075-8686-2dd17b1f475d
select id, kind, version, title, body_ref, is_active, created_at
from agreement_templates
where kind = $1::text and is_active
order by version desc
limit 1;
`

const QDeactivateTemplate = `--sql 99d0578a-1676-47bb-9044-8aae6ac273fb
update agreement_templates
set is_active = false
where id = $1::uuid;
`

const QListTemplates = `--sql 7339dd41-345e-4053-a826-34cd84f8d85a
select id, kind, version, title, body_ref, is_active, created_at
from agreement_templates
order by kind, version desc;
`

const QInsertAssignment = `--sql 5595635d-85cf-481b-901e-51f71dc4116b
insert into agreement_assignments(id, template_id, signer_id, context_ref, status, due_at, created_at, updated_at)
values ($1::uuid, $2::uuid, $3::uuid, $4::uuid, $5::text, $6::timestamptz, now(), now());
`

const QSelectAssignmentByID = `--sql cdbc8706-2e9a-46e2-84db-1aedf07de6ee
select id, template_id, signer_id, context_ref, status, due_at, signed_at, created_at, updated_at
from agreement_assignments
where id = $1::uuid;
`

const QSelectAssignmentByContextRef = `--sql f7622336-eb1a-4eef-8ede-5a33ee32ab2d
select id, template_id, signer_id, context_ref, status, due_at, signed_at, created_at, updated_at
from agreement_assignments
where context_ref = $1::uuid;
`

const QListAssignmentsBySigner = `--sql 96636bd1-ece5-40f7-b22a-c4ae8bfd14d0
select id, template_id, signer_id, context_ref, status, due_at, signed_at, created_at, updated_at
from agreement_assignments
where signer_id = $1::uuid
order by created_at asc;
`

const QListAssignments = `--sql 057cf37d-e02f-45a0-8ca3-8bd838cee131
select id, template_id, signer_id, context_ref, status, due_at, signed_at, created_at, updated_at
from agreement_assignments
order by created_at desc
limit $1::int;
`

const QExistsSignedAssignment = `--sql 890b98c8-cabd-4285-8a5d-805e83f7183e
select exists (
  select 1
  from agreement_assignments a
  join agreement_templates t on t.id = a.template_id
  where a.signer_id = $1::uuid and t.kind = $2::text and a.status = 'SIGNED'
);
`

const QUpdateAssignmentStatus = `--sql 2a014c2b-3820-4dad-83f3-31a7a08e527a
update agreement_assignments
set status = $2::text,
    signed_at = coalesce($3::timestamptz, signed_at),
    updated_at = now()
where id = $1::uuid;
`

const QMarkAssignmentOverdue = `--sql a31c05e1-eb90-4af9-a3ef-698e818ff63f
update agreement_assignments
set status = 'OVERDUE', updated_at = now()
where id = $1::uuid and status = 'PENDING';
`

const QInsertAuditEntry = `--sql fcb5e2e3-11fc-4124-bceb-d6dcd21cf3d7
insert into agreement_audit_logs(id, assignment_id, actor_id, action, ip_address, country, created_at)
values ($1::uuid, $2::uuid, $3::uuid, $4::text, $5::text, $6::text, now());
`

const QListAuditEntriesByAssignment = `--sql 0ea0b778-e040-465b-904e-af7ec956ac94
select id, assignment_id, actor_id, action, ip_address, country, created_at
from agreement_audit_logs
where assignment_id = $1::uuid
order by created_at desc;
`
