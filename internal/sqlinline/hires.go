package sqlinline

const QInsertHireRequest = `--sql 159e2ebe-3fc3-4a06-9714-18fbe1f8d035
insert into hire_requests(id, hirer_id, talent_id, project_title, project_description, status, agreement_assignment_id, created_at, updated_at)
values ($1::uuid, $2::uuid, $3::uuid, $4::text, $5::text, $6::text, $7::uuid, now(), now());
`

const QSelectHireRequestByID = `--sql cdf30afd-9a66-4f5f-9262-75f1300d29dc
select id, hirer_id, talent_id, project_title, project_description, status, agreement_assignment_id, created_at, updated_at
from hire_requests
where id = $1::uuid;
`

const QListHireRequestsByHirer = `--sql 449a8824-94d0-401a-8890-1249d85500fb
select id, hirer_id, talent_id, project_title, project_description, status, agreement_assignment_id, created_at, updated_at
from hire_requests
where hirer_id = $1::uuid
order by created_at desc;
`

const QListHireRequestsByTalent = `--sql ea982891-724f-47af-8035-6656e51c59e7
select id, hirer_id, talent_id, project_title, project_description, status, agreement_assignment_id, created_at, updated_at
from hire_requests
where talent_id = $1::uuid
order by created_at desc;
`

const QUpdateHireRequestStatus = `--sql ad764154-c03a-4f48-a3b5-c62e7543be0c
update hire_requests
set status = $2::text, updated_at = now()
where id = $1::uuid;
`
