package sqlinline

const QSelectIntegrationToken = `--sql 320930ff-537c-4464-ac6a-e2a4b80fa650
select token
from integration_tokens
where provider = $1::text;
`

const QUpsertIntegrationToken = `--sql d522bda7-0364-4648-a0fb-63b6b228574e
insert into integration_tokens(provider, token, properties, created_at, updated_at)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update
set token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
